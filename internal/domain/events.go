package domain

import "time"

const (
	EventEscrowCreated            = "escrow-created"
	EventEscrowFunded             = "escrow-funded"
	EventEscrowReleased           = "escrow-released"
	EventEscrowRefunded           = "escrow-refunded"
	EventEscrowDisputed           = "escrow-disputed"
	EventDisputeResolved          = "dispute-resolved"
	EventFeeCollected             = "fee-collected"
	EventDisputeEscalated         = "dispute-escalated"
	EventSeniorArbiterAssigned    = "senior-arbiter-assigned"
	EventEscalatedDisputeResolved = "escalated-dispute-resolved"
	EventPartialRefundIssued      = "partial-refund-issued"
	EventRemainingReleased        = "remaining-released"
	EventRemainingRefunded        = "remaining-refunded"
	EventArbiterVoteCast          = "arbiter-vote-cast"
	EventArbiterAdded             = "arbiter-added"
	EventArbiterRemoved           = "arbiter-removed"
	EventSeniorArbiterAuthorized  = "senior-arbiter-authorized"
	EventSeniorArbiterRevoked     = "senior-arbiter-revoked"
)

// Event is one immutable record appended to the event sink. The external
// indexing service receives events at-least-once, ordered per escrow id.
type Event struct {
	Name      string
	EscrowID  uint64
	Actor     string
	Amount    uint64
	Fee       uint64
	Fields    map[string]string
	Timestamp time.Time
}

type EventPublisher interface {
	Publish(events ...Event) error
}
