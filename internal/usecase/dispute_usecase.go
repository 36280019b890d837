package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/fees"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
)

type DisputeUsecase interface {
	OpenDispute(ctx context.Context, caller string, escrowID uint64, reason string) error
	ResolveDispute(ctx context.Context, caller string, escrowID uint64, winner string) error
	EscalateDispute(ctx context.Context, caller string, escrowID uint64, reason string) (*domain.DisputeEscalation, error)
	AssignSeniorArbiter(ctx context.Context, caller string, escrowID uint64, arbiter string) error
	ResolveEscalatedDispute(ctx context.Context, caller string, escrowID uint64, winner string) error
	CastArbiterVote(ctx context.Context, caller string, escrowID uint64, voteForBuyer bool) error
	GetVoteResults(escrowID uint64) (*domain.VoteTally, error)
	GetEscalationByEscrowID(escrowID uint64) (*domain.DisputeEscalation, error)
}

type DefaultDisputeUsecase struct {
	escrowRepo       domain.EscrowRepository
	disputeRepo      domain.DisputeRepository
	arbiterRepo      domain.ArbiterRepository
	statsRepo        domain.StatsRepository
	ledger           domain.LedgerPort
	clock            domain.Clock
	publisher        domain.EventPublisher
	metrics          *metrics.EscrowMetrics
	owner            string
	custody          string
	escalationPeriod time.Duration

	mu sync.Mutex
}

func NewDefaultDisputeUsecase(
	escrowRepo domain.EscrowRepository,
	disputeRepo domain.DisputeRepository,
	arbiterRepo domain.ArbiterRepository,
	statsRepo domain.StatsRepository,
	ledger domain.LedgerPort,
	clock domain.Clock,
	publisher domain.EventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	ownerAddress, custodyAddress string,
	escalationPeriod time.Duration,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		escrowRepo:       escrowRepo,
		disputeRepo:      disputeRepo,
		arbiterRepo:      arbiterRepo,
		statsRepo:        statsRepo,
		ledger:           ledger,
		clock:            clock,
		publisher:        publisher,
		metrics:          escrowMetrics,
		owner:            ownerAddress,
		custody:          custodyAddress,
		escalationPeriod: escalationPeriod,
	}
}

func (uc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, caller string, escrowID uint64, reason string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("open_dispute", err)
	}
	if caller != escrow.Buyer && caller != escrow.Seller {
		return uc.fail("open_dispute", fmt.Errorf("only a party to the escrow may dispute: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("open_dispute", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}

	now := uc.clock.Now()
	escrow.Status = domain.StatusDisputed
	escrow.DisputeReason = reason
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("open_dispute", err)
	}
	if err := uc.bumpUserStats(caller, now, func(s *domain.UserStats) {
		s.EscrowsDisputed++
	}); err != nil {
		return err
	}

	side := partySide(escrow, caller)
	uc.emit(domain.Event{
		Name:     domain.EventEscrowDisputed,
		EscrowID: escrow.ID,
		Actor:    caller,
		Amount:   escrow.Amount,
		Fields: map[string]string{
			"reason":    reason,
			"opened_by": side,
		},
		Timestamp: now,
	})
	uc.metrics.RecordDisputeOpened(side)
	return nil
}

func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, caller string, escrowID uint64, winner string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("resolve_dispute", err)
	}
	isArbiter, err := uc.arbiterRepo.IsArbiter(caller)
	if err != nil {
		return uc.fail("resolve_dispute", err)
	}
	if !isArbiter && caller != uc.owner {
		return uc.fail("resolve_dispute", fmt.Errorf("only a registered arbiter or the owner may resolve: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusDisputed {
		return uc.fail("resolve_dispute", fmt.Errorf("escrow is not disputed: %w", domain.ErrWrongState))
	}
	if winner != escrow.Buyer && winner != escrow.Seller {
		return uc.fail("resolve_dispute", fmt.Errorf("winner must be the buyer or the seller: %w", domain.ErrNotAuthorized))
	}

	if err := uc.settleDispute(ctx, escrow, winner, caller, "arbiter", domain.EventDisputeResolved); err != nil {
		return uc.fail("resolve_dispute", err)
	}
	return nil
}

func (uc *DefaultDisputeUsecase) EscalateDispute(ctx context.Context, caller string, escrowID uint64, reason string) (*domain.DisputeEscalation, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return nil, uc.fail("escalate_dispute", err)
	}
	if escrow.Status != domain.StatusDisputed {
		return nil, uc.fail("escalate_dispute", fmt.Errorf("escrow is not disputed: %w", domain.ErrWrongState))
	}
	existing, err := uc.disputeRepo.GetEscalationByEscrowID(escrowID)
	if err != nil {
		return nil, uc.fail("escalate_dispute", err)
	}
	if existing != nil {
		return nil, uc.fail("escalate_dispute", fmt.Errorf("dispute already escalated: %w", domain.ErrWrongState))
	}
	if caller != escrow.Buyer && caller != escrow.Seller && (escrow.Arbiter == "" || caller != escrow.Arbiter) {
		return nil, uc.fail("escalate_dispute", fmt.Errorf("only a party or the assigned arbiter may escalate: %w", domain.ErrNotAuthorized))
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, uc.fail("escalate_dispute", err)
	}
	now := uc.clock.Now()
	escalation := &domain.DisputeEscalation{
		ID:          idGenerator(),
		EscrowID:    escrowID,
		Level:       1,
		EscalatedBy: caller,
		Reason:      reason,
		EscalatedAt: now,
		Deadline:    now.Add(uc.escalationPeriod),
	}
	if err := uc.disputeRepo.CreateEscalation(escalation); err != nil {
		return nil, uc.fail("escalate_dispute", err)
	}

	uc.emit(domain.Event{
		Name:     domain.EventDisputeEscalated,
		EscrowID: escrowID,
		Actor:    caller,
		Fields: map[string]string{
			"reason":   reason,
			"deadline": escalation.Deadline.UTC().Format(time.RFC3339),
		},
		Timestamp: now,
	})
	uc.metrics.RecordDisputeEscalated()
	return escalation, nil
}

func (uc *DefaultDisputeUsecase) AssignSeniorArbiter(ctx context.Context, caller string, escrowID uint64, arbiter string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if caller != uc.owner {
		return uc.fail("assign_senior_arbiter", fmt.Errorf("only the owner may assign a senior arbiter: %w", domain.ErrNotAuthorized))
	}
	escalation, err := uc.disputeRepo.GetEscalationByEscrowID(escrowID)
	if err != nil {
		return uc.fail("assign_senior_arbiter", err)
	}
	if escalation == nil {
		return uc.fail("assign_senior_arbiter", fmt.Errorf("no escalation for escrow: %w", domain.ErrNotFound))
	}
	isSenior, err := uc.arbiterRepo.IsSeniorArbiter(arbiter)
	if err != nil {
		return uc.fail("assign_senior_arbiter", err)
	}
	if !isSenior {
		return uc.fail("assign_senior_arbiter", fmt.Errorf("arbiter is not a registered senior arbiter: %w", domain.ErrNotAuthorized))
	}
	now := uc.clock.Now()
	if !now.Before(escalation.Deadline) {
		return uc.fail("assign_senior_arbiter", domain.ErrEscalationExpired)
	}

	escalation.Arbiter = arbiter
	if err := uc.disputeRepo.UpdateEscalation(escalation); err != nil {
		return uc.fail("assign_senior_arbiter", err)
	}

	uc.emit(domain.Event{
		Name:     domain.EventSeniorArbiterAssigned,
		EscrowID: escrowID,
		Actor:    caller,
		Fields: map[string]string{
			"arbiter": arbiter,
		},
		Timestamp: now,
	})
	return nil
}

func (uc *DefaultDisputeUsecase) ResolveEscalatedDispute(ctx context.Context, caller string, escrowID uint64, winner string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("resolve_escalated_dispute", err)
	}
	escalation, err := uc.disputeRepo.GetEscalationByEscrowID(escrowID)
	if err != nil {
		return uc.fail("resolve_escalated_dispute", err)
	}
	if escalation == nil {
		return uc.fail("resolve_escalated_dispute", fmt.Errorf("no escalation for escrow: %w", domain.ErrNotFound))
	}
	if escalation.Arbiter == "" || caller != escalation.Arbiter {
		return uc.fail("resolve_escalated_dispute", fmt.Errorf("only the assigned senior arbiter may resolve: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusDisputed {
		return uc.fail("resolve_escalated_dispute", fmt.Errorf("escrow is not disputed: %w", domain.ErrWrongState))
	}
	if winner != escrow.Buyer && winner != escrow.Seller {
		return uc.fail("resolve_escalated_dispute", fmt.Errorf("winner must be the buyer or the seller: %w", domain.ErrNotAuthorized))
	}

	if err := uc.settleDispute(ctx, escrow, winner, caller, "senior", domain.EventEscalatedDisputeResolved); err != nil {
		return uc.fail("resolve_escalated_dispute", err)
	}
	return nil
}

func (uc *DefaultDisputeUsecase) CastArbiterVote(ctx context.Context, caller string, escrowID uint64, voteForBuyer bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}
	if escrow.Status != domain.StatusDisputed {
		return uc.fail("cast_arbiter_vote", fmt.Errorf("escrow is not disputed: %w", domain.ErrWrongState))
	}
	isArbiter, err := uc.arbiterRepo.IsArbiter(caller)
	if err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}
	if !isArbiter {
		return uc.fail("cast_arbiter_vote", fmt.Errorf("only a registered arbiter may vote: %w", domain.ErrNotAuthorized))
	}
	existing, err := uc.disputeRepo.GetVote(escrowID, caller)
	if err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}
	if existing != nil {
		return uc.fail("cast_arbiter_vote", fmt.Errorf("arbiter already voted on this escrow: %w", domain.ErrWrongState))
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}
	now := uc.clock.Now()
	vote := &domain.ArbiterVote{
		ID:           idGenerator(),
		EscrowID:     escrowID,
		Arbiter:      caller,
		VoteForBuyer: voteForBuyer,
		VotedAt:      now,
	}
	if err := uc.disputeRepo.CreateVote(vote); err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}

	tally, err := uc.disputeRepo.GetVoteTally(escrowID)
	if err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}
	if tally == nil {
		tally = &domain.VoteTally{EscrowID: escrowID}
	}
	side := "seller"
	if voteForBuyer {
		side = "buyer"
		tally.BuyerVotes++
	} else {
		tally.SellerVotes++
	}
	tally.TotalVotes++
	if err := uc.disputeRepo.SaveVoteTally(tally); err != nil {
		return uc.fail("cast_arbiter_vote", err)
	}

	uc.emit(domain.Event{
		Name:     domain.EventArbiterVoteCast,
		EscrowID: escrowID,
		Actor:    caller,
		Fields: map[string]string{
			"vote_for":     side,
			"buyer_votes":  fmt.Sprintf("%d", tally.BuyerVotes),
			"seller_votes": fmt.Sprintf("%d", tally.SellerVotes),
			"total_votes":  fmt.Sprintf("%d", tally.TotalVotes),
		},
		Timestamp: now,
	})
	uc.metrics.RecordArbiterVote(side)
	return nil
}

func (uc *DefaultDisputeUsecase) GetVoteResults(escrowID uint64) (*domain.VoteTally, error) {
	return uc.disputeRepo.GetVoteTally(escrowID)
}

func (uc *DefaultDisputeUsecase) GetEscalationByEscrowID(escrowID uint64) (*domain.DisputeEscalation, error) {
	return uc.disputeRepo.GetEscalationByEscrowID(escrowID)
}

// settleDispute pays the winner minus the dispute fee, pays the fee to the
// resolving arbiter, and moves the escrow to RESOLVED. The votes and any
// escalation record become inert once the escrow is RESOLVED; the tally never
// resolves a dispute by itself.
func (uc *DefaultDisputeUsecase) settleDispute(ctx context.Context, escrow *domain.Escrow, winner, arbiter, track, eventName string) error {
	// The resolution pays out the original amount; after partial refunds the
	// custody no longer covers it.
	if escrow.RemainingAmount != escrow.Amount {
		return domain.ErrInsufficientFunds
	}

	fee := fees.DisputeFee(escrow.Amount)
	payout := escrow.Amount - fee
	if err := uc.ledger.Transfer(ctx, uc.custody, winner, payout); err != nil {
		return err
	}
	if fee > 0 {
		if err := uc.ledger.Transfer(ctx, uc.custody, arbiter, fee); err != nil {
			return err
		}
	}

	now := uc.clock.Now()
	escrow.Status = domain.StatusResolved
	escrow.Arbiter = arbiter
	escrow.RemainingAmount = 0
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return err
	}

	side := partySide(escrow, winner)
	if err := uc.bumpUserStats(escrow.Buyer, now, func(s *domain.UserStats) {
		s.EscrowsCompleted++
		s.TotalVolume += escrow.Amount
	}); err != nil {
		return err
	}
	if err := uc.bumpUserStats(escrow.Seller, now, func(s *domain.UserStats) {
		s.EscrowsCompleted++
		s.TotalVolume += escrow.Amount
	}); err != nil {
		return err
	}
	if err := uc.bumpUserStats(winner, now, func(s *domain.UserStats) {
		s.FeesPaid += fee
	}); err != nil {
		return err
	}
	if err := uc.bumpProtocolStats(func(s *domain.ProtocolStats) {
		s.TotalVolume += escrow.Amount
		s.TotalFeesCollected += fee
	}); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:     eventName,
		EscrowID: escrow.ID,
		Actor:    arbiter,
		Amount:   escrow.Amount,
		Fee:      fee,
		Fields: map[string]string{
			"winner":      winner,
			"winner_side": side,
			"payout":      fmt.Sprintf("%d", payout),
		},
		Timestamp: now,
	}, feeCollectedEvent(escrow.ID, arbiter, fee, "dispute", now))
	uc.metrics.RecordDisputeResolved(track, side, escrow.Amount, fee)
	return nil
}

func (uc *DefaultDisputeUsecase) bumpUserStats(address string, now time.Time, apply func(*domain.UserStats)) error {
	stats, err := uc.statsRepo.GetUserStats(address)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &domain.UserStats{Address: address, FirstActivityAt: now}
	}
	stats.LastActivityAt = now
	if apply != nil {
		apply(stats)
	}
	return uc.statsRepo.SaveUserStats(stats)
}

func (uc *DefaultDisputeUsecase) bumpProtocolStats(apply func(*domain.ProtocolStats)) error {
	stats, err := uc.statsRepo.GetProtocolStats()
	if err != nil {
		return err
	}
	apply(stats)
	return uc.statsRepo.SaveProtocolStats(stats)
}

func (uc *DefaultDisputeUsecase) emit(events ...domain.Event) {
	if err := uc.publisher.Publish(events...); err != nil {
		slog.Error("failed to publish dispute events", "error", err.Error())
	}
}

func (uc *DefaultDisputeUsecase) fail(operation string, err error) error {
	uc.metrics.RecordError(operation, errorKind(err))
	return err
}

func partySide(escrow *domain.Escrow, address string) string {
	if address == escrow.Buyer {
		return "buyer"
	}
	return "seller"
}
