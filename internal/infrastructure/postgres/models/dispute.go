package models

import "time"

type DisputeEscalationModel struct {
	ID          string `gorm:"primaryKey"`
	EscrowID    uint64 `gorm:"uniqueIndex"`
	Level       int32
	EscalatedBy string
	Arbiter     string
	Reason      string
	EscalatedAt time.Time
	Deadline    time.Time
	UpdatedAt   time.Time
}

func (DisputeEscalationModel) TableName() string {
	return "dispute_escalations"
}

type ArbiterVoteModel struct {
	ID           string `gorm:"primaryKey"`
	EscrowID     uint64 `gorm:"uniqueIndex:idx_votes_escrow_arbiter"`
	Arbiter      string `gorm:"uniqueIndex:idx_votes_escrow_arbiter"`
	VoteForBuyer bool
	VotedAt      time.Time
}

func (ArbiterVoteModel) TableName() string {
	return "arbiter_votes"
}

type VoteTallyModel struct {
	EscrowID    uint64 `gorm:"primaryKey"`
	BuyerVotes  int64
	SellerVotes int64
	TotalVotes  int64
	UpdatedAt   time.Time
}

func (VoteTallyModel) TableName() string {
	return "vote_tallies"
}
