package domain

import "time"

// UserStats are derived per-address counters. They are side-effecting only and
// never gate a state transition.
type UserStats struct {
	Address          string
	EscrowsCreated   uint64
	EscrowsCompleted uint64
	EscrowsDisputed  uint64
	TotalVolume      uint64
	FeesPaid         uint64
	FirstActivityAt  time.Time
	LastActivityAt   time.Time
}

type ProtocolStats struct {
	TotalEscrows       uint64
	TotalVolume        uint64
	TotalFeesCollected uint64
}

// StatsRepository persists derived counters. GetUserStats returns (nil, nil)
// for an address with no activity yet; GetProtocolStats returns a zeroed
// record before the first escrow.
type StatsRepository interface {
	GetUserStats(address string) (*UserStats, error)
	SaveUserStats(stats *UserStats) error
	GetProtocolStats() (*ProtocolStats, error)
	SaveProtocolStats(stats *ProtocolStats) error
}
