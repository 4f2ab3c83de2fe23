package configs

import (
	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter builds the broker writer the outbox dispatcher
// publishes through. Topic is set per message; RequireAll keeps the
// delivery durable on the broker side.
func NewKafkaWriter(cfg *Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
}
