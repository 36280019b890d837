package usecase

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type StatsUsecase interface {
	GetUserStats(address string) (*domain.UserStats, error)
	GetProtocolStats() (*domain.ProtocolStats, error)
}

// DefaultStatsUsecase serves the read-only statistics surface. Stats never
// gate a transition; they are derived counters only.
type DefaultStatsUsecase struct {
	statsRepo domain.StatsRepository
}

func NewDefaultStatsUsecase(statsRepo domain.StatsRepository) *DefaultStatsUsecase {
	return &DefaultStatsUsecase{statsRepo: statsRepo}
}

func (uc *DefaultStatsUsecase) GetUserStats(address string) (*domain.UserStats, error) {
	return uc.statsRepo.GetUserStats(address)
}

func (uc *DefaultStatsUsecase) GetProtocolStats() (*domain.ProtocolStats, error) {
	return uc.statsRepo.GetProtocolStats()
}
