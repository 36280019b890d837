package logger

import (
	"encoding/json"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PGEventOutbox appends every emitted event to the escrow_events table inside
// the service database, so the indexing service can re-read the stream even
// when a Kafka push was lost. Records are append-only.
type PGEventOutbox struct {
	db *gorm.DB
}

func NewPGEventOutbox(db *gorm.DB) *PGEventOutbox {
	return &PGEventOutbox{db: db}
}

func (o *PGEventOutbox) Publish(events ...domain.Event) error {
	rows := make([]models.EscrowEventModel, 0, len(events))
	for _, event := range events {
		payload := ""
		if len(event.Fields) > 0 {
			raw, err := json.Marshal(event.Fields)
			if err != nil {
				return err
			}
			payload = string(raw)
		}
		rows = append(rows, models.EscrowEventModel{
			EventID:   uuid.NewString(),
			Name:      event.Name,
			EscrowID:  event.EscrowID,
			Actor:     event.Actor,
			Amount:    event.Amount,
			Fee:       event.Fee,
			Payload:   payload,
			Timestamp: event.Timestamp,
		})
	}
	return o.db.Create(&rows).Error
}
