package dto

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type EscrowResponse struct {
	ID              uint64     `json:"id"`
	Buyer           string     `json:"buyer"`
	Seller          string     `json:"seller"`
	Amount          uint64     `json:"amount"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	DisputeReason   string     `json:"dispute_reason,omitempty"`
	Arbiter         string     `json:"arbiter,omitempty"`
	TotalRefunded   uint64     `json:"total_refunded"`
	RemainingAmount uint64     `json:"remaining_amount"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	FundedAt        *time.Time `json:"funded_at,omitempty"`
}

func ToEscrowResponse(escrow *domain.Escrow) *EscrowResponse {
	return &EscrowResponse{
		ID:              escrow.ID,
		Buyer:           escrow.Buyer,
		Seller:          escrow.Seller,
		Amount:          escrow.Amount,
		Description:     escrow.Description,
		Status:          string(escrow.Status),
		DisputeReason:   escrow.DisputeReason,
		Arbiter:         escrow.Arbiter,
		TotalRefunded:   escrow.TotalRefunded,
		RemainingAmount: escrow.RemainingAmount,
		CreatedAt:       escrow.CreatedAt,
		ExpiresAt:       escrow.ExpiresAt,
		FundedAt:        escrow.FundedAt,
	}
}

type EscrowListResponse struct {
	Escrows []*EscrowResponse `json:"escrows"`
	Total   int64             `json:"total"`
}

type EscalationResponse struct {
	EscrowID    uint64    `json:"escrow_id"`
	Level       int32     `json:"level"`
	EscalatedBy string    `json:"escalated_by"`
	Arbiter     string    `json:"arbiter,omitempty"`
	Reason      string    `json:"reason"`
	EscalatedAt time.Time `json:"escalated_at"`
	Deadline    time.Time `json:"deadline"`
}

func ToEscalationResponse(escalation *domain.DisputeEscalation) *EscalationResponse {
	return &EscalationResponse{
		EscrowID:    escalation.EscrowID,
		Level:       escalation.Level,
		EscalatedBy: escalation.EscalatedBy,
		Arbiter:     escalation.Arbiter,
		Reason:      escalation.Reason,
		EscalatedAt: escalation.EscalatedAt,
		Deadline:    escalation.Deadline,
	}
}

type VoteTallyResponse struct {
	EscrowID    uint64 `json:"escrow_id"`
	BuyerVotes  int64  `json:"buyer_votes"`
	SellerVotes int64  `json:"seller_votes"`
	TotalVotes  int64  `json:"total_votes"`
}

type UserStatsResponse struct {
	Address          string    `json:"address"`
	EscrowsCreated   uint64    `json:"escrows_created"`
	EscrowsCompleted uint64    `json:"escrows_completed"`
	EscrowsDisputed  uint64    `json:"escrows_disputed"`
	TotalVolume      uint64    `json:"total_volume"`
	FeesPaid         uint64    `json:"fees_paid"`
	FirstActivityAt  time.Time `json:"first_activity_at"`
	LastActivityAt   time.Time `json:"last_activity_at"`
}

type ProtocolStatsResponse struct {
	TotalEscrows       uint64 `json:"total_escrows"`
	TotalVolume        uint64 `json:"total_volume"`
	TotalFeesCollected uint64 `json:"total_fees_collected"`
}
