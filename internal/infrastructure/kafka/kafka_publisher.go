package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Topics routes event types to their Kafka topics. Payout terminal events go
// to their own topic so the balance/notification listeners can consume them
// independently of the reconciliation stream.
type Topics struct {
	Settlement string
	Payout     string
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topics Topics
}

func NewDefaultKafkaPublisher(brokers []string, topics Topics) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topics: topics,
	}
}

func (k *DefaultKafkaPublisher) topicFor(eventType domain.EventType) string {
	switch eventType {
	case domain.EventPayoutSubmitted, domain.EventPayoutSucceeded, domain.EventPayoutFailed:
		return k.topics.Payout
	default:
		return k.topics.Settlement
	}
}

func (k *DefaultKafkaPublisher) PublishSettlement(ctx context.Context, events ...domain.SettlementEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	timestamp := time.Now()

	for _, event := range events {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = timestamp
		}
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", event.Type, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.ApplicationID),
			Value: value,
			Time:  timestamp,
			Topic: k.topicFor(event.Type),
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write settlement events: %w", err)
	}

	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
