package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	db *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{db: db}
}

func (r *DefaultEscrowRepository) CreateEscrow(escrow *domain.Escrow) error {
	model := mappers.ToGORMEscrow(escrow)
	model.ID = 0
	if err := r.db.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create escrow: %w", err)
	}
	// The database sequence assigns the monotonic id.
	escrow.ID = model.ID
	return nil
}

func (r *DefaultEscrowRepository) GetEscrowByID(escrowID uint64) (*domain.Escrow, error) {
	var model models.EscrowModel
	if err := r.db.Where("id = ?", escrowID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&model), nil
}

func (r *DefaultEscrowRepository) UpdateEscrow(escrow *domain.Escrow) error {
	model := mappers.ToGORMEscrow(escrow)
	result := r.db.Model(&models.EscrowModel{}).Where("id = ?", escrow.ID).Select(
		"status", "dispute_reason", "arbiter", "total_refunded", "remaining_amount", "funded_at",
	).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update escrow %d: %w", escrow.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DefaultEscrowRepository) GetEscrowsByParticipant(address string, page, limit int64) ([]*domain.Escrow, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := r.db.Model(&models.EscrowModel{}).Where("buyer = ? OR seller = ?", address, address)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var escrowModels []models.EscrowModel
	if err := query.
		Order("id DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&escrowModels).Error; err != nil {
		return nil, 0, err
	}

	escrows := make([]*domain.Escrow, len(escrowModels))
	for i := range escrowModels {
		escrows[i] = mappers.ToDomainEscrow(&escrowModels[i])
	}
	return escrows, total, nil
}
