package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/circle/pkg/internal"
	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("  ____ _          _\n / ___(_)_ __ ___| | ___\n| |   | | '__/ __| |/ _ \\\n| |___| | | | (__| |  __/\n \\____|_|_|  \\___|_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Circle"), pkg.AppVersion)
	fmt.Printf("The friend-scoped social networking service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("CIRCLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", "0.0.0.0:8000")
	viper.SetDefault("grpc_bind", "0.0.0.0:7001")
	viper.SetDefault("security.token_ttl", "168h")
	viper.SetDefault("cleanup.retention", "168h")
	viper.SetDefault("kafka.topic", "circle.events")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if len(viper.GetString("security.jwt_secret")) == 0 {
		log.Fatal().Msg("security.jwt_secret is not configured, refusing to issue tokens without it.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect to kafka
	if err := gap.InitializeToKafka(); err != nil {
		log.Error().Err(err).Msg("An error occurred when connecting to kafka, events will not be published...")
	}

	services.InitLanguageDetector(viper.GetStringSlice("languages"))

	grpcServer := grpc.NewGrpc()
	grpcServer.CheckDatabase()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 30s", grpcServer.CheckDatabase)
	quartz.Start()

	// Server
	httpServer := http.NewServer()
	go httpServer.Listen()

	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	log.Info().Str("bind", viper.GetString("bind")).Str("grpc", viper.GetString("grpc_bind")).Msg("Circle is up and running.")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	grpcServer.Stop()
	if err := httpServer.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down http server...")
	}
	if err := gap.Close(); err != nil {
		log.Error().Err(err).Msg("An error occurred when flushing pending events...")
	}
}
