package domain

import "time"

// DisputeEscalation promotes a dispute to senior arbitration. At most one
// escalation may ever exist per escrow.
type DisputeEscalation struct {
	ID          string
	EscrowID    uint64
	Level       int32
	EscalatedBy string
	Arbiter     string
	Reason      string
	EscalatedAt time.Time
	Deadline    time.Time
}

// ArbiterVote is a single arbiter's vote on a disputed escrow. One vote per
// (escrow, arbiter) pair.
type ArbiterVote struct {
	ID           string
	EscrowID     uint64
	Arbiter      string
	VoteForBuyer bool
	VotedAt      time.Time
}

type VoteTally struct {
	EscrowID    uint64
	BuyerVotes  int64
	SellerVotes int64
	TotalVotes  int64
}

// DisputeRepository owns escalations, votes and tallies. Lookups return
// (nil, nil) when no record exists.
type DisputeRepository interface {
	CreateEscalation(escalation *DisputeEscalation) error
	GetEscalationByEscrowID(escrowID uint64) (*DisputeEscalation, error)
	UpdateEscalation(escalation *DisputeEscalation) error
	CreateVote(vote *ArbiterVote) error
	GetVote(escrowID uint64, arbiter string) (*ArbiterVote, error)
	GetVoteTally(escrowID uint64) (*VoteTally, error)
	SaveVoteTally(tally *VoteTally) error
}
