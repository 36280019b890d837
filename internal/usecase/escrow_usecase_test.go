package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEscrow(t *testing.T, f *fixture, amount uint64, duration time.Duration) *domain.Escrow {
	t.Helper()
	escrow, err := f.escrowUC.CreateEscrow(context.Background(), testBuyer, &escrowdto.CreateEscrowInput{
		Seller:      testSeller,
		Amount:      amount,
		Description: "rig rental",
		Duration:    duration,
	})
	require.NoError(t, err)
	return escrow
}

func createFundedEscrow(t *testing.T, f *fixture, amount uint64) *domain.Escrow {
	t.Helper()
	escrow := createEscrow(t, f, amount, 24*time.Hour)
	f.ledger.balances[testBuyer] = amount
	require.NoError(t, f.escrowUC.FundEscrow(context.Background(), testBuyer, escrow.ID))
	return f.mustEscrow(escrow.ID)
}

func TestCreateEscrow(t *testing.T) {
	f := newFixture()

	escrow := createEscrow(t, f, 100_000_000, 24*time.Hour)

	assert.Equal(t, uint64(1), escrow.ID)
	assert.Equal(t, testBuyer, escrow.Buyer)
	assert.Equal(t, testSeller, escrow.Seller)
	assert.Equal(t, domain.StatusPending, escrow.Status)
	assert.Equal(t, uint64(100_000_000), escrow.Amount)
	assert.Equal(t, uint64(100_000_000), escrow.RemainingAmount)
	assert.Zero(t, escrow.TotalRefunded)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), escrow.ExpiresAt)
	assert.Nil(t, escrow.FundedAt)

	second := createEscrow(t, f, 500, time.Hour)
	assert.Equal(t, uint64(2), second.ID, "ids must be assigned in creation order")

	buyerStats, err := f.stats.GetUserStats(testBuyer)
	require.NoError(t, err)
	require.NotNil(t, buyerStats)
	assert.Equal(t, uint64(2), buyerStats.EscrowsCreated)

	protocol, err := f.stats.GetProtocolStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), protocol.TotalEscrows)

	created := f.events.lastByName(domain.EventEscrowCreated)
	require.NotNil(t, created)
	assert.Equal(t, uint64(2), created.EscrowID)
	assert.Equal(t, testBuyer, created.Actor)
}

func TestCreateEscrowValidation(t *testing.T) {
	f := newFixture()

	_, err := f.escrowUC.CreateEscrow(context.Background(), testBuyer, &escrowdto.CreateEscrowInput{
		Seller: testSeller, Amount: 0, Duration: time.Hour,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.escrowUC.CreateEscrow(context.Background(), testBuyer, &escrowdto.CreateEscrowInput{
		Seller: testSeller, Amount: 100, Duration: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestFundEscrow(t *testing.T) {
	f := newFixture()
	escrow := createEscrow(t, f, 1_000_000, 24*time.Hour)
	f.ledger.balances[testBuyer] = 1_000_000

	require.NoError(t, f.escrowUC.FundEscrow(context.Background(), testBuyer, escrow.ID))

	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusFunded, stored.Status)
	require.NotNil(t, stored.FundedAt)
	assert.Equal(t, f.clock.Now(), *stored.FundedAt)
	assert.Zero(t, f.ledger.balances[testBuyer])
	assert.Equal(t, uint64(1_000_000), f.ledger.balances[testCustody])
}

func TestFundEscrowOnlyBuyer(t *testing.T) {
	f := newFixture()
	escrow := createEscrow(t, f, 1000, time.Hour)
	f.ledger.balances[testSeller] = 1000

	err := f.escrowUC.FundEscrow(context.Background(), testSeller, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, domain.StatusPending, f.mustEscrow(escrow.ID).Status)
	assert.Empty(t, f.ledger.transfers)
}

func TestFundEscrowTwice(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 1000)
	f.ledger.balances[testBuyer] = 1000

	err := f.escrowUC.FundEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrWrongState)
	assert.Len(t, f.ledger.transfers, 1)
}

func TestFundEscrowExpired(t *testing.T) {
	f := newFixture()
	escrow := createEscrow(t, f, 1000, time.Hour)
	f.ledger.balances[testBuyer] = 1000
	f.clock.Advance(time.Hour)

	err := f.escrowUC.FundEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrExpired)
	assert.Equal(t, domain.StatusPending, f.mustEscrow(escrow.ID).Status)
}

func TestFundEscrowInsufficientBalance(t *testing.T) {
	f := newFixture()
	escrow := createEscrow(t, f, 1000, time.Hour)
	f.ledger.balances[testBuyer] = 999

	err := f.escrowUC.FundEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.StatusPending, f.mustEscrow(escrow.ID).Status)
	assert.Equal(t, uint64(999), f.ledger.balances[testBuyer])
}

func TestReleaseEscrow(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100_000_000)

	require.NoError(t, f.escrowUC.ReleaseEscrow(context.Background(), testBuyer, escrow.ID))

	assert.Equal(t, uint64(99_000_000), f.ledger.balances[testSeller])
	assert.Equal(t, uint64(1_000_000), f.ledger.balances[testOwner])
	assert.Zero(t, f.ledger.balances[testCustody])

	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusReleased, stored.Status)
	assert.Zero(t, stored.RemainingAmount)

	sellerStats, err := f.stats.GetUserStats(testSeller)
	require.NoError(t, err)
	require.NotNil(t, sellerStats)
	assert.Equal(t, uint64(1), sellerStats.EscrowsCompleted)
	assert.Equal(t, uint64(100_000_000), sellerStats.TotalVolume)
	assert.Equal(t, uint64(1_000_000), sellerStats.FeesPaid)

	buyerStats, err := f.stats.GetUserStats(testBuyer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), buyerStats.EscrowsCompleted)
	assert.Zero(t, buyerStats.FeesPaid)

	protocol, err := f.stats.GetProtocolStats()
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), protocol.TotalVolume)
	assert.Equal(t, uint64(1_000_000), protocol.TotalFeesCollected)

	released := f.events.lastByName(domain.EventEscrowReleased)
	require.NotNil(t, released)
	assert.Equal(t, uint64(1_000_000), released.Fee)
	feeEvent := f.events.lastByName(domain.EventFeeCollected)
	require.NotNil(t, feeEvent)
	assert.Equal(t, testOwner, feeEvent.Actor)
	assert.Equal(t, "protocol", feeEvent.Fields["fee_kind"])
}

func TestReleaseEscrowOnlyBuyer(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 1000)

	for _, caller := range []string{testSeller, testOwner, "0xstranger"} {
		err := f.escrowUC.ReleaseEscrow(context.Background(), caller, escrow.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	}
	assert.Equal(t, domain.StatusFunded, f.mustEscrow(escrow.ID).Status)
	assert.Equal(t, uint64(1000), f.ledger.balances[testCustody])
}

func TestReleaseEscrowNotFunded(t *testing.T) {
	f := newFixture()
	escrow := createEscrow(t, f, 1000, time.Hour)

	err := f.escrowUC.ReleaseEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrWrongState)
}

func TestReleaseEscrowAfterPartialRefund(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100_000)
	require.NoError(t, f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 40_000, Reason: "late start",
	}))

	err := f.escrowUC.ReleaseEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusFunded, stored.Status)
	assert.Equal(t, uint64(60_000), stored.RemainingAmount)
}

func TestRefundEscrowBySeller(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 5000)

	require.NoError(t, f.escrowUC.RefundEscrow(context.Background(), testSeller, escrow.ID))

	assert.Equal(t, uint64(5000), f.ledger.balances[testBuyer])
	assert.Zero(t, f.ledger.balances[testCustody])
	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusRefunded, stored.Status)
	assert.Equal(t, uint64(5000), stored.TotalRefunded)
	assert.Zero(t, stored.RemainingAmount)
}

func TestRefundEscrowByBuyer(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 5000)

	err := f.escrowUC.RefundEscrow(context.Background(), testBuyer, escrow.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized, "buyer may not refund before expiry")

	f.clock.Advance(24*time.Hour + time.Second)
	require.NoError(t, f.escrowUC.RefundEscrow(context.Background(), testBuyer, escrow.ID))
	assert.Equal(t, domain.StatusRefunded, f.mustEscrow(escrow.ID).Status)
}

func TestPartialRefundLedger(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100)

	for _, amount := range []uint64{10, 20, 30} {
		require.NoError(t, f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
			EscrowID: escrow.ID, RefundAmount: amount, Reason: "milestone missed",
		}))
	}

	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusFunded, stored.Status, "partial refunds never change the status")
	assert.Equal(t, uint64(60), stored.TotalRefunded)
	assert.Equal(t, uint64(40), stored.RemainingAmount)
	assert.Equal(t, stored.Amount, stored.RemainingAmount+stored.TotalRefunded)
	assert.Equal(t, uint64(60), f.ledger.balances[testBuyer])

	err := f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 50,
	})
	assert.ErrorIs(t, err, domain.ErrExceedsRemaining)
	assert.Equal(t, uint64(40), f.mustEscrow(escrow.ID).RemainingAmount)
}

func TestPartialRefundValidation(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100)

	err := f.escrowUC.PartialRefund(context.Background(), testBuyer, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 10,
	})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestPartialRefundDrained(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100)

	require.NoError(t, f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 100,
	}))
	assert.Zero(t, f.mustEscrow(escrow.ID).RemainingAmount)

	err := f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNothingToRefund)
}

func TestReleaseRemaining(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100_000)
	require.NoError(t, f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 60_000,
	}))

	require.NoError(t, f.escrowUC.ReleaseRemaining(context.Background(), testBuyer, escrow.ID))

	// 1% of the remaining 40000 goes to the owner.
	assert.Equal(t, uint64(39_600), f.ledger.balances[testSeller])
	assert.Equal(t, uint64(400), f.ledger.balances[testOwner])
	assert.Equal(t, uint64(60_000), f.ledger.balances[testBuyer])
	assert.Zero(t, f.ledger.balances[testCustody])

	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusReleased, stored.Status)
	assert.Zero(t, stored.RemainingAmount)
	assert.Equal(t, uint64(60_000), stored.TotalRefunded)
}

func TestRefundRemaining(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 100_000)
	require.NoError(t, f.escrowUC.PartialRefund(context.Background(), testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 25_000,
	}))

	require.NoError(t, f.escrowUC.RefundRemaining(context.Background(), testSeller, escrow.ID))

	assert.Equal(t, uint64(100_000), f.ledger.balances[testBuyer])
	assert.Zero(t, f.ledger.balances[testCustody])
	stored := f.mustEscrow(escrow.ID)
	assert.Equal(t, domain.StatusRefunded, stored.Status)
	assert.Equal(t, uint64(100_000), stored.TotalRefunded)
	assert.Zero(t, stored.RemainingAmount)
}

func TestTerminalEscrowIsImmutable(t *testing.T) {
	f := newFixture()
	escrow := createFundedEscrow(t, f, 1000)
	require.NoError(t, f.escrowUC.ReleaseEscrow(context.Background(), testBuyer, escrow.ID))

	ctx := context.Background()
	assert.ErrorIs(t, f.escrowUC.FundEscrow(ctx, testBuyer, escrow.ID), domain.ErrWrongState)
	assert.ErrorIs(t, f.escrowUC.ReleaseEscrow(ctx, testBuyer, escrow.ID), domain.ErrWrongState)
	assert.ErrorIs(t, f.escrowUC.RefundEscrow(ctx, testSeller, escrow.ID), domain.ErrWrongState)
	assert.ErrorIs(t, f.escrowUC.PartialRefund(ctx, testSeller, &escrowdto.PartialRefundInput{
		EscrowID: escrow.ID, RefundAmount: 1,
	}), domain.ErrWrongState)
	assert.Equal(t, domain.StatusReleased, f.mustEscrow(escrow.ID).Status)
}

func TestGetEscrowNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.escrowUC.GetEscrowByID(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEscrowsByParticipant(t *testing.T) {
	f := newFixture()
	createEscrow(t, f, 100, time.Hour)
	createEscrow(t, f, 200, time.Hour)

	escrows, total, err := f.escrowUC.GetEscrowsByParticipant(testBuyer, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, escrows, 2)

	_, total, err = f.escrowUC.GetEscrowsByParticipant("0xnobody", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}
