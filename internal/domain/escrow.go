package domain

import "time"

type EscrowStatus string

const (
	StatusPending  EscrowStatus = "PENDING"
	StatusFunded   EscrowStatus = "FUNDED"
	StatusReleased EscrowStatus = "RELEASED"
	StatusRefunded EscrowStatus = "REFUNDED"
	StatusDisputed EscrowStatus = "DISPUTED"
	StatusResolved EscrowStatus = "RESOLVED"
)

// IsTerminal reports whether no further transition may leave the status.
func (s EscrowStatus) IsTerminal() bool {
	switch s {
	case StatusReleased, StatusRefunded, StatusResolved:
		return true
	default:
		return false
	}
}

type Escrow struct {
	ID              uint64
	Buyer           string
	Seller          string
	Amount          uint64
	Description     string
	Status          EscrowStatus
	DisputeReason   string
	Arbiter         string
	TotalRefunded   uint64
	RemainingAmount uint64
	CreatedAt       time.Time
	ExpiresAt       time.Time
	FundedAt        *time.Time
}

type EscrowRepository interface {
	CreateEscrow(escrow *Escrow) error
	GetEscrowByID(escrowID uint64) (*Escrow, error)
	UpdateEscrow(escrow *Escrow) error
	GetEscrowsByParticipant(address string, page, limit int64) ([]*Escrow, int64, error)
}
