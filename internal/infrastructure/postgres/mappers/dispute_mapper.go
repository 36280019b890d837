package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainEscalation(model *models.DisputeEscalationModel) *domain.DisputeEscalation {
	return &domain.DisputeEscalation{
		ID:          model.ID,
		EscrowID:    model.EscrowID,
		Level:       model.Level,
		EscalatedBy: model.EscalatedBy,
		Arbiter:     model.Arbiter,
		Reason:      model.Reason,
		EscalatedAt: model.EscalatedAt,
		Deadline:    model.Deadline,
	}
}

func ToGORMEscalation(escalation *domain.DisputeEscalation) *models.DisputeEscalationModel {
	return &models.DisputeEscalationModel{
		ID:          escalation.ID,
		EscrowID:    escalation.EscrowID,
		Level:       escalation.Level,
		EscalatedBy: escalation.EscalatedBy,
		Arbiter:     escalation.Arbiter,
		Reason:      escalation.Reason,
		EscalatedAt: escalation.EscalatedAt,
		Deadline:    escalation.Deadline,
	}
}

func ToDomainVote(model *models.ArbiterVoteModel) *domain.ArbiterVote {
	return &domain.ArbiterVote{
		ID:           model.ID,
		EscrowID:     model.EscrowID,
		Arbiter:      model.Arbiter,
		VoteForBuyer: model.VoteForBuyer,
		VotedAt:      model.VotedAt,
	}
}

func ToGORMVote(vote *domain.ArbiterVote) *models.ArbiterVoteModel {
	return &models.ArbiterVoteModel{
		ID:           vote.ID,
		EscrowID:     vote.EscrowID,
		Arbiter:      vote.Arbiter,
		VoteForBuyer: vote.VoteForBuyer,
		VotedAt:      vote.VotedAt,
	}
}

func ToDomainTally(model *models.VoteTallyModel) *domain.VoteTally {
	return &domain.VoteTally{
		EscrowID:    model.EscrowID,
		BuyerVotes:  model.BuyerVotes,
		SellerVotes: model.SellerVotes,
		TotalVotes:  model.TotalVotes,
	}
}

func ToGORMTally(tally *domain.VoteTally) *models.VoteTallyModel {
	return &models.VoteTallyModel{
		EscrowID:    tally.EscrowID,
		BuyerVotes:  tally.BuyerVotes,
		SellerVotes: tally.SellerVotes,
		TotalVotes:  tally.TotalVotes,
	}
}
