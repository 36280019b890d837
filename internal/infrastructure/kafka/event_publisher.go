package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EscrowEvent is the wire envelope consumed by the external indexing and
// analytics service.
type EscrowEvent struct {
	EventID   string            `json:"event_id"`
	Event     string            `json:"event"`
	EscrowID  uint64            `json:"escrow_id"`
	Actor     string            `json:"actor,omitempty"`
	Amount    uint64            `json:"amount,omitempty"`
	Fee       uint64            `json:"fee,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish appends the events to the sink. Messages are keyed by escrow id so
// the consumer observes emission order per escrow; registry events without an
// escrow id are keyed by the affected address.
func (k *KafkaEventPublisher) Publish(events ...domain.Event) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		envelope := EscrowEvent{
			EventID:   uuid.NewString(),
			Event:     event.Name,
			EscrowID:  event.EscrowID,
			Actor:     event.Actor,
			Amount:    event.Amount,
			Fee:       event.Fee,
			Fields:    event.Fields,
			Timestamp: event.Timestamp,
		}
		value, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		key := []byte(strconv.FormatUint(event.EscrowID, 10))
		if event.EscrowID == 0 {
			key = []byte(event.Actor)
		}
		messages = append(messages, kafka.Message{
			Key:   key,
			Value: value,
			Time:  event.Timestamp,
		})
	}
	return k.writer.WriteMessages(context.Background(), messages...)
}

func (k *KafkaEventPublisher) Close() error {
	return k.writer.Close()
}
