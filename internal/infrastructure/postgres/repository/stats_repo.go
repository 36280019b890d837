package repository

import (
	"errors"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// protocolStatsRowID is the singleton row of protocol-wide totals.
const protocolStatsRowID uint32 = 1

type DefaultStatsRepository struct {
	db *gorm.DB
}

func NewDefaultStatsRepository(db *gorm.DB) *DefaultStatsRepository {
	return &DefaultStatsRepository{db: db}
}

func (r *DefaultStatsRepository) GetUserStats(address string) (*domain.UserStats, error) {
	var model models.UserStatsModel
	if err := r.db.Where("address = ?", address).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainUserStats(&model), nil
}

func (r *DefaultStatsRepository) SaveUserStats(stats *domain.UserStats) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}).Create(mappers.ToGORMUserStats(stats)).Error
}

func (r *DefaultStatsRepository) GetProtocolStats() (*domain.ProtocolStats, error) {
	var model models.ProtocolStatsModel
	if err := r.db.Where("id = ?", protocolStatsRowID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.ProtocolStats{}, nil
		}
		return nil, err
	}
	return &domain.ProtocolStats{
		TotalEscrows:       model.TotalEscrows,
		TotalVolume:        model.TotalVolume,
		TotalFeesCollected: model.TotalFeesCollected,
	}, nil
}

func (r *DefaultStatsRepository) SaveProtocolStats(stats *domain.ProtocolStats) error {
	model := models.ProtocolStatsModel{
		ID:                 protocolStatsRowID,
		TotalEscrows:       stats.TotalEscrows,
		TotalVolume:        stats.TotalVolume,
		TotalFeesCollected: stats.TotalFeesCollected,
		UpdatedAt:          time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&model).Error
}
