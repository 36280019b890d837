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
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

type EscrowUsecase interface {
	CreateEscrow(ctx context.Context, caller string, input *escrowdto.CreateEscrowInput) (*domain.Escrow, error)
	FundEscrow(ctx context.Context, caller string, escrowID uint64) error
	ReleaseEscrow(ctx context.Context, caller string, escrowID uint64) error
	RefundEscrow(ctx context.Context, caller string, escrowID uint64) error
	PartialRefund(ctx context.Context, caller string, input *escrowdto.PartialRefundInput) error
	ReleaseRemaining(ctx context.Context, caller string, escrowID uint64) error
	RefundRemaining(ctx context.Context, caller string, escrowID uint64) error
	GetEscrowByID(escrowID uint64) (*domain.Escrow, error)
	GetEscrowsByParticipant(address string, page, limit int64) ([]*domain.Escrow, int64, error)
}

type DefaultEscrowUsecase struct {
	escrowRepo domain.EscrowRepository
	statsRepo  domain.StatsRepository
	ledger     domain.LedgerPort
	clock      domain.Clock
	publisher  domain.EventPublisher
	metrics    *metrics.EscrowMetrics
	owner      string
	custody    string

	// mu serializes state-changing operations: the host transaction model is
	// a single all-or-nothing unit per operation, never interleaved per id.
	mu sync.Mutex
}

func NewDefaultEscrowUsecase(
	escrowRepo domain.EscrowRepository,
	statsRepo domain.StatsRepository,
	ledger domain.LedgerPort,
	clock domain.Clock,
	publisher domain.EventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	ownerAddress, custodyAddress string,
) *DefaultEscrowUsecase {
	return &DefaultEscrowUsecase{
		escrowRepo: escrowRepo,
		statsRepo:  statsRepo,
		ledger:     ledger,
		clock:      clock,
		publisher:  publisher,
		metrics:    escrowMetrics,
		owner:      ownerAddress,
		custody:    custodyAddress,
	}
}

func (uc *DefaultEscrowUsecase) CreateEscrow(ctx context.Context, caller string, input *escrowdto.CreateEscrowInput) (*domain.Escrow, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("create_escrow")()

	if input.Amount == 0 || input.Duration <= 0 {
		return nil, uc.fail("create_escrow", fmt.Errorf("amount and duration must be positive: %w", domain.ErrInvalidAmount))
	}

	now := uc.clock.Now()
	escrow := &domain.Escrow{
		Buyer:           caller,
		Seller:          input.Seller,
		Amount:          input.Amount,
		Description:     input.Description,
		Status:          domain.StatusPending,
		TotalRefunded:   0,
		RemainingAmount: input.Amount,
		CreatedAt:       now,
		ExpiresAt:       now.Add(input.Duration),
	}
	if err := uc.escrowRepo.CreateEscrow(escrow); err != nil {
		return nil, uc.fail("create_escrow", err)
	}

	if err := uc.bumpUserStats(caller, now, func(s *domain.UserStats) {
		s.EscrowsCreated++
	}); err != nil {
		return nil, err
	}
	if err := uc.bumpProtocolStats(func(s *domain.ProtocolStats) {
		s.TotalEscrows++
	}); err != nil {
		return nil, err
	}

	uc.emit(domain.Event{
		Name:     domain.EventEscrowCreated,
		EscrowID: escrow.ID,
		Actor:    caller,
		Amount:   escrow.Amount,
		Fields: map[string]string{
			"seller":      escrow.Seller,
			"description": escrow.Description,
			"expires_at":  escrow.ExpiresAt.UTC().Format(time.RFC3339),
		},
		Timestamp: now,
	})
	uc.metrics.RecordEscrowCreated()
	return escrow, nil
}

func (uc *DefaultEscrowUsecase) FundEscrow(ctx context.Context, caller string, escrowID uint64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("fund_escrow")()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("fund_escrow", err)
	}
	if caller != escrow.Buyer {
		return uc.fail("fund_escrow", fmt.Errorf("only the buyer may fund: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusPending {
		return uc.fail("fund_escrow", fmt.Errorf("escrow already funded: %w", domain.ErrWrongState))
	}
	now := uc.clock.Now()
	if !now.Before(escrow.ExpiresAt) {
		return uc.fail("fund_escrow", domain.ErrExpired)
	}

	if err := uc.ledger.Transfer(ctx, escrow.Buyer, uc.custody, escrow.Amount); err != nil {
		return uc.fail("fund_escrow", err)
	}

	escrow.Status = domain.StatusFunded
	escrow.FundedAt = &now
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("fund_escrow", err)
	}
	if err := uc.bumpUserStats(caller, now, nil); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:      domain.EventEscrowFunded,
		EscrowID:  escrow.ID,
		Actor:     caller,
		Amount:    escrow.Amount,
		Timestamp: now,
	})
	uc.metrics.RecordEscrowFunded(escrow.Amount)
	return nil
}

func (uc *DefaultEscrowUsecase) ReleaseEscrow(ctx context.Context, caller string, escrowID uint64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("release_escrow")()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("release_escrow", err)
	}
	if caller != escrow.Buyer {
		return uc.fail("release_escrow", fmt.Errorf("only the buyer may release: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("release_escrow", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}
	// A full release pays out the original amount. After partial refunds the
	// custody no longer holds it; callers use ReleaseRemaining instead.
	if escrow.RemainingAmount != escrow.Amount {
		return uc.fail("release_escrow", domain.ErrInsufficientFunds)
	}

	fee := fees.ProtocolFee(escrow.Amount)
	payout := escrow.Amount - fee
	if err := uc.ledger.Transfer(ctx, uc.custody, escrow.Seller, payout); err != nil {
		return uc.fail("release_escrow", err)
	}
	if fee > 0 {
		if err := uc.ledger.Transfer(ctx, uc.custody, uc.owner, fee); err != nil {
			return uc.fail("release_escrow", err)
		}
	}

	now := uc.clock.Now()
	escrow.Status = domain.StatusReleased
	escrow.RemainingAmount = 0
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("release_escrow", err)
	}
	if err := uc.recordSettlement(escrow.Buyer, escrow.Seller, escrow.Amount, fee, now); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:     domain.EventEscrowReleased,
		EscrowID: escrow.ID,
		Actor:    caller,
		Amount:   escrow.Amount,
		Fee:      fee,
		Fields: map[string]string{
			"seller": escrow.Seller,
			"payout": fmt.Sprintf("%d", payout),
		},
		Timestamp: now,
	}, feeCollectedEvent(escrow.ID, uc.owner, fee, "protocol", now))
	uc.metrics.RecordEscrowReleased("full", escrow.Amount, fee)
	return nil
}

func (uc *DefaultEscrowUsecase) RefundEscrow(ctx context.Context, caller string, escrowID uint64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("refund_escrow")()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("refund_escrow", err)
	}
	now := uc.clock.Now()
	if err := refundAuthorized(caller, escrow, now); err != nil {
		return uc.fail("refund_escrow", err)
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("refund_escrow", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}
	// Same custody rule as ReleaseEscrow: the full amount must still be held.
	if escrow.RemainingAmount != escrow.Amount {
		return uc.fail("refund_escrow", domain.ErrInsufficientFunds)
	}

	if err := uc.ledger.Transfer(ctx, uc.custody, escrow.Buyer, escrow.Amount); err != nil {
		return uc.fail("refund_escrow", err)
	}

	escrow.Status = domain.StatusRefunded
	escrow.TotalRefunded = escrow.Amount
	escrow.RemainingAmount = 0
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("refund_escrow", err)
	}
	if err := uc.bumpUserStats(caller, now, nil); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:      domain.EventEscrowRefunded,
		EscrowID:  escrow.ID,
		Actor:     caller,
		Amount:    escrow.Amount,
		Timestamp: now,
	})
	uc.metrics.RecordEscrowRefunded("full", escrow.Amount)
	return nil
}

func (uc *DefaultEscrowUsecase) PartialRefund(ctx context.Context, caller string, input *escrowdto.PartialRefundInput) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("partial_refund")()

	escrow, err := uc.escrowRepo.GetEscrowByID(input.EscrowID)
	if err != nil {
		return uc.fail("partial_refund", err)
	}
	if caller != escrow.Seller {
		return uc.fail("partial_refund", fmt.Errorf("only the seller may issue a partial refund: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("partial_refund", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}
	if input.RefundAmount == 0 {
		return uc.fail("partial_refund", domain.ErrInvalidAmount)
	}
	if escrow.RemainingAmount == 0 {
		return uc.fail("partial_refund", domain.ErrNothingToRefund)
	}
	if input.RefundAmount > escrow.RemainingAmount {
		return uc.fail("partial_refund", domain.ErrExceedsRemaining)
	}

	if err := uc.ledger.Transfer(ctx, uc.custody, escrow.Buyer, input.RefundAmount); err != nil {
		return uc.fail("partial_refund", err)
	}

	now := uc.clock.Now()
	escrow.TotalRefunded += input.RefundAmount
	escrow.RemainingAmount -= input.RefundAmount
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("partial_refund", err)
	}
	if err := uc.bumpUserStats(caller, now, nil); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:     domain.EventPartialRefundIssued,
		EscrowID: escrow.ID,
		Actor:    caller,
		Amount:   input.RefundAmount,
		Fields: map[string]string{
			"reason":         input.Reason,
			"remaining":      fmt.Sprintf("%d", escrow.RemainingAmount),
			"total_refunded": fmt.Sprintf("%d", escrow.TotalRefunded),
		},
		Timestamp: now,
	})
	uc.metrics.RecordPartialRefund(input.RefundAmount)
	return nil
}

func (uc *DefaultEscrowUsecase) ReleaseRemaining(ctx context.Context, caller string, escrowID uint64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("release_remaining")()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("release_remaining", err)
	}
	if caller != escrow.Buyer {
		return uc.fail("release_remaining", fmt.Errorf("only the buyer may release: %w", domain.ErrNotAuthorized))
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("release_remaining", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}
	if escrow.RemainingAmount == 0 {
		return uc.fail("release_remaining", domain.ErrNothingToRefund)
	}

	remaining := escrow.RemainingAmount
	fee := fees.ProtocolFee(remaining)
	payout := remaining - fee
	if err := uc.ledger.Transfer(ctx, uc.custody, escrow.Seller, payout); err != nil {
		return uc.fail("release_remaining", err)
	}
	if fee > 0 {
		if err := uc.ledger.Transfer(ctx, uc.custody, uc.owner, fee); err != nil {
			return uc.fail("release_remaining", err)
		}
	}

	now := uc.clock.Now()
	escrow.Status = domain.StatusReleased
	escrow.RemainingAmount = 0
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("release_remaining", err)
	}
	if err := uc.recordSettlement(escrow.Buyer, escrow.Seller, remaining, fee, now); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:     domain.EventRemainingReleased,
		EscrowID: escrow.ID,
		Actor:    caller,
		Amount:   remaining,
		Fee:      fee,
		Fields: map[string]string{
			"seller": escrow.Seller,
			"payout": fmt.Sprintf("%d", payout),
		},
		Timestamp: now,
	}, feeCollectedEvent(escrow.ID, uc.owner, fee, "protocol", now))
	uc.metrics.RecordEscrowReleased("remaining", remaining, fee)
	return nil
}

func (uc *DefaultEscrowUsecase) RefundRemaining(ctx context.Context, caller string, escrowID uint64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	defer uc.observe("refund_remaining")()

	escrow, err := uc.escrowRepo.GetEscrowByID(escrowID)
	if err != nil {
		return uc.fail("refund_remaining", err)
	}
	now := uc.clock.Now()
	if err := refundAuthorized(caller, escrow, now); err != nil {
		return uc.fail("refund_remaining", err)
	}
	if escrow.Status != domain.StatusFunded {
		return uc.fail("refund_remaining", fmt.Errorf("escrow is not funded: %w", domain.ErrWrongState))
	}
	if escrow.RemainingAmount == 0 {
		return uc.fail("refund_remaining", domain.ErrNothingToRefund)
	}

	remaining := escrow.RemainingAmount
	if err := uc.ledger.Transfer(ctx, uc.custody, escrow.Buyer, remaining); err != nil {
		return uc.fail("refund_remaining", err)
	}

	escrow.Status = domain.StatusRefunded
	escrow.TotalRefunded += remaining
	escrow.RemainingAmount = 0
	if err := uc.escrowRepo.UpdateEscrow(escrow); err != nil {
		return uc.fail("refund_remaining", err)
	}
	if err := uc.bumpUserStats(caller, now, nil); err != nil {
		return err
	}

	uc.emit(domain.Event{
		Name:      domain.EventRemainingRefunded,
		EscrowID:  escrow.ID,
		Actor:     caller,
		Amount:    remaining,
		Timestamp: now,
	})
	uc.metrics.RecordEscrowRefunded("remaining", remaining)
	return nil
}

func (uc *DefaultEscrowUsecase) GetEscrowByID(escrowID uint64) (*domain.Escrow, error) {
	return uc.escrowRepo.GetEscrowByID(escrowID)
}

func (uc *DefaultEscrowUsecase) GetEscrowsByParticipant(address string, page, limit int64) ([]*domain.Escrow, int64, error) {
	return uc.escrowRepo.GetEscrowsByParticipant(address, page, limit)
}

// refundAuthorized allows the seller at any time, and the buyer once the
// funding deadline has passed.
func refundAuthorized(caller string, escrow *domain.Escrow, now time.Time) error {
	if caller == escrow.Seller {
		return nil
	}
	if caller == escrow.Buyer && now.After(escrow.ExpiresAt) {
		return nil
	}
	return fmt.Errorf("refund requires the seller, or the buyer after expiry: %w", domain.ErrNotAuthorized)
}

// recordSettlement applies the stats of a completed payout: both parties get
// the volume, the seller carries the protocol fee.
func (uc *DefaultEscrowUsecase) recordSettlement(buyer, seller string, amount, fee uint64, now time.Time) error {
	if err := uc.bumpUserStats(buyer, now, func(s *domain.UserStats) {
		s.EscrowsCompleted++
		s.TotalVolume += amount
	}); err != nil {
		return err
	}
	if err := uc.bumpUserStats(seller, now, func(s *domain.UserStats) {
		s.EscrowsCompleted++
		s.TotalVolume += amount
		s.FeesPaid += fee
	}); err != nil {
		return err
	}
	return uc.bumpProtocolStats(func(s *domain.ProtocolStats) {
		s.TotalVolume += amount
		s.TotalFeesCollected += fee
	})
}

func (uc *DefaultEscrowUsecase) bumpUserStats(address string, now time.Time, apply func(*domain.UserStats)) error {
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

func (uc *DefaultEscrowUsecase) bumpProtocolStats(apply func(*domain.ProtocolStats)) error {
	stats, err := uc.statsRepo.GetProtocolStats()
	if err != nil {
		return err
	}
	apply(stats)
	return uc.statsRepo.SaveProtocolStats(stats)
}

func (uc *DefaultEscrowUsecase) emit(events ...domain.Event) {
	if err := uc.publisher.Publish(events...); err != nil {
		// The durable outbox already holds the record; delivery is
		// at-least-once, so a failed push is retried by the indexer's re-read.
		slog.Error("failed to publish escrow events", "error", err.Error())
	}
}

func (uc *DefaultEscrowUsecase) fail(operation string, err error) error {
	uc.metrics.RecordError(operation, errorKind(err))
	return err
}

func (uc *DefaultEscrowUsecase) observe(operation string) func() {
	start := time.Now()
	return func() {
		uc.metrics.RecordOperationDuration(operation, time.Since(start).Seconds())
	}
}

func feeCollectedEvent(escrowID uint64, collector string, fee uint64, feeKind string, now time.Time) domain.Event {
	return domain.Event{
		Name:     domain.EventFeeCollected,
		EscrowID: escrowID,
		Actor:    collector,
		Amount:   fee,
		Fee:      fee,
		Fields: map[string]string{
			"fee_kind": feeKind,
		},
		Timestamp: now,
	}
}
