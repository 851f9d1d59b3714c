package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dry-cleaner/internal/wire"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the notifier needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes events to a Kafka topic keyed by order code.
type KafkaNotifier struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewKafkaNotifier creates a notifier writing to topic on brokers.
func NewKafkaNotifier(brokers []string, topic string, logger zerolog.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaNotifier(writer, topic, logger)
}

func newKafkaNotifier(writer messageWriter, topic string, logger zerolog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "kafka-notifier").Str("topic", topic).Logger(),
	}
}

// Notify writes the event as a snake_case JSON message.
func (n *KafkaNotifier) Notify(ctx context.Context, event Event) error {
	payload, err := wire.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderCode),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	n.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("order_code", event.OrderCode).
		Msg("event published")
	return nil
}

// Close flushes and closes the writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
