package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds Kafka producer settings.
type Config struct {
	Brokers []string
	Topic   string
}

// Publisher writes order events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

// NewPublisher creates a publisher for cfg.Topic.
func NewPublisher(cfg Config) *Publisher {
	if cfg.Topic == "" {
		cfg.Topic = "procurement.orders"
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		topic: cfg.Topic,
	}
}

// Publish writes body keyed by routingKey. A non-empty exchange overrides
// the configured topic.
func (p *Publisher) Publish(exchange, routingKey string, body []byte) error {
	topic := p.topic
	if exchange != "" {
		topic = exchange
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(routingKey),
		Value: body,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
