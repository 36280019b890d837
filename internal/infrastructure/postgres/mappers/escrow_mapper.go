package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowModel) *domain.Escrow {
	return &domain.Escrow{
		ID:              model.ID,
		Buyer:           model.Buyer,
		Seller:          model.Seller,
		Amount:          model.Amount,
		Description:     model.Description,
		Status:          domain.EscrowStatus(model.Status),
		DisputeReason:   model.DisputeReason,
		Arbiter:         model.Arbiter,
		TotalRefunded:   model.TotalRefunded,
		RemainingAmount: model.RemainingAmount,
		CreatedAt:       model.CreatedAt,
		ExpiresAt:       model.ExpiresAt,
		FundedAt:        model.FundedAt,
	}
}

func ToGORMEscrow(escrow *domain.Escrow) *models.EscrowModel {
	return &models.EscrowModel{
		ID:              escrow.ID,
		Buyer:           escrow.Buyer,
		Seller:          escrow.Seller,
		Amount:          escrow.Amount,
		Description:     escrow.Description,
		Status:          string(escrow.Status),
		DisputeReason:   escrow.DisputeReason,
		Arbiter:         escrow.Arbiter,
		TotalRefunded:   escrow.TotalRefunded,
		RemainingAmount: escrow.RemainingAmount,
		CreatedAt:       escrow.CreatedAt,
		ExpiresAt:       escrow.ExpiresAt,
		FundedAt:        escrow.FundedAt,
	}
}
