package gap

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

// Kf publishes domain events, nil when no broker is configured.
var Kf *kafka.Writer

func InitializeToKafka() error {
	brokers := viper.GetStringSlice("kafka.brokers")
	if len(brokers) == 0 {
		log.Warn().Msg("No kafka brokers configured, domain events will not be published.")
		return nil
	}

	Kf = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  viper.GetString("kafka.topic"),
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("count", len(messages)).Msg("An error occurred when publishing events...")
			}
		},
	}

	log.Info().Strs("brokers", brokers).Str("topic", Kf.Topic).Msg("Connected to kafka.")
	return nil
}

func Close() error {
	if Kf == nil {
		return nil
	}
	return Kf.Close()
}
