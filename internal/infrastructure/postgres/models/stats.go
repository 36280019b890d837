package models

import "time"

type UserStatsModel struct {
	Address          string `gorm:"primaryKey"`
	EscrowsCreated   uint64
	EscrowsCompleted uint64
	EscrowsDisputed  uint64
	TotalVolume      uint64
	FeesPaid         uint64
	FirstActivityAt  time.Time
	LastActivityAt   time.Time
}

func (UserStatsModel) TableName() string {
	return "user_stats"
}

// ProtocolStatsModel is a singleton row (id = 1) of protocol-wide totals.
type ProtocolStatsModel struct {
	ID                 uint32 `gorm:"primaryKey"`
	TotalEscrows       uint64
	TotalVolume        uint64
	TotalFeesCollected uint64
	UpdatedAt          time.Time
}

func (ProtocolStatsModel) TableName() string {
	return "protocol_stats"
}
