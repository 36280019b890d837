package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) CreateEscalation(escalation *domain.DisputeEscalation) error {
	if err := r.db.Create(mappers.ToGORMEscalation(escalation)).Error; err != nil {
		return fmt.Errorf("failed to create escalation for escrow %d: %w", escalation.EscrowID, err)
	}
	return nil
}

func (r *DefaultDisputeRepository) GetEscalationByEscrowID(escrowID uint64) (*domain.DisputeEscalation, error) {
	var model models.DisputeEscalationModel
	if err := r.db.Where("escrow_id = ?", escrowID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainEscalation(&model), nil
}

func (r *DefaultDisputeRepository) UpdateEscalation(escalation *domain.DisputeEscalation) error {
	return r.db.Model(&models.DisputeEscalationModel{}).
		Where("id = ?", escalation.ID).
		Updates(map[string]interface{}{
			"arbiter": escalation.Arbiter,
		}).Error
}

func (r *DefaultDisputeRepository) CreateVote(vote *domain.ArbiterVote) error {
	if err := r.db.Create(mappers.ToGORMVote(vote)).Error; err != nil {
		return fmt.Errorf("failed to record vote on escrow %d: %w", vote.EscrowID, err)
	}
	return nil
}

func (r *DefaultDisputeRepository) GetVote(escrowID uint64, arbiter string) (*domain.ArbiterVote, error) {
	var model models.ArbiterVoteModel
	if err := r.db.Where("escrow_id = ? AND arbiter = ?", escrowID, arbiter).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainVote(&model), nil
}

func (r *DefaultDisputeRepository) GetVoteTally(escrowID uint64) (*domain.VoteTally, error) {
	var model models.VoteTallyModel
	if err := r.db.Where("escrow_id = ?", escrowID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainTally(&model), nil
}

func (r *DefaultDisputeRepository) SaveVoteTally(tally *domain.VoteTally) error {
	model := mappers.ToGORMTally(tally)
	model.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "escrow_id"}},
		UpdateAll: true,
	}).Create(model).Error
}
