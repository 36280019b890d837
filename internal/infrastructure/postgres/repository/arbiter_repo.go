package repository

import (
	"errors"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultArbiterRepository struct {
	db *gorm.DB
}

func NewDefaultArbiterRepository(db *gorm.DB) *DefaultArbiterRepository {
	return &DefaultArbiterRepository{db: db}
}

func (r *DefaultArbiterRepository) SetArbiter(address string, enabled bool) error {
	return r.upsert(address, "is_arbiter", enabled)
}

func (r *DefaultArbiterRepository) SetSeniorArbiter(address string, enabled bool) error {
	return r.upsert(address, "is_senior", enabled)
}

func (r *DefaultArbiterRepository) IsArbiter(address string) (bool, error) {
	model, err := r.get(address)
	if err != nil || model == nil {
		return false, err
	}
	return model.IsArbiter, nil
}

func (r *DefaultArbiterRepository) IsSeniorArbiter(address string) (bool, error) {
	model, err := r.get(address)
	if err != nil || model == nil {
		return false, err
	}
	return model.IsSenior, nil
}

func (r *DefaultArbiterRepository) get(address string) (*models.ArbiterModel, error) {
	var model models.ArbiterModel
	if err := r.db.Where("address = ?", address).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model, nil
}

func (r *DefaultArbiterRepository) upsert(address, column string, enabled bool) error {
	model := models.ArbiterModel{Address: address, UpdatedAt: time.Now()}
	if column == "is_arbiter" {
		model.IsArbiter = enabled
	} else {
		model.IsSenior = enabled
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&model).Error
}
