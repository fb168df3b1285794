package grpc

import (
	"context"
	"net"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service besides the
// overall "" entry.
const ServiceName = "circle"

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	grpc_health_v1.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	return server
}

// CheckDatabase reports the service as serving only while the database
// answers a ping.
func (v *App) CheckDatabase() {
	status := grpc_health_v1.HealthCheckResponse_SERVING

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if database.C == nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	} else if conn, err := database.C.DB(); err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	} else if err := conn.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Database is unreachable, reporting not serving...")
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	v.health.SetServingStatus("", status)
	v.health.SetServingStatus(ServiceName, status)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.srv.Serve(listener)
}

func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
