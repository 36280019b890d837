package models

import "time"

// EscrowEventModel is the durable append-only outbox the indexing service can
// re-read; Kafka is the push channel for the same records.
type EscrowEventModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	EventID   string `gorm:"uniqueIndex"`
	Name      string
	EscrowID  uint64 `gorm:"index"`
	Actor     string
	Amount    uint64
	Fee       uint64
	Payload   string
	Timestamp time.Time
}

func (EscrowEventModel) TableName() string {
	return "escrow_events"
}
