package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainUserStats(model *models.UserStatsModel) *domain.UserStats {
	return &domain.UserStats{
		Address:          model.Address,
		EscrowsCreated:   model.EscrowsCreated,
		EscrowsCompleted: model.EscrowsCompleted,
		EscrowsDisputed:  model.EscrowsDisputed,
		TotalVolume:      model.TotalVolume,
		FeesPaid:         model.FeesPaid,
		FirstActivityAt:  model.FirstActivityAt,
		LastActivityAt:   model.LastActivityAt,
	}
}

func ToGORMUserStats(stats *domain.UserStats) *models.UserStatsModel {
	return &models.UserStatsModel{
		Address:          stats.Address,
		EscrowsCreated:   stats.EscrowsCreated,
		EscrowsCompleted: stats.EscrowsCompleted,
		EscrowsDisputed:  stats.EscrowsDisputed,
		TotalVolume:      stats.TotalVolume,
		FeesPaid:         stats.FeesPaid,
		FirstActivityAt:  stats.FirstActivityAt,
		LastActivityAt:   stats.LastActivityAt,
	}
}
