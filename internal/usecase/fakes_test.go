package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

const (
	testOwner   = "0xowner"
	testCustody = "0xcustody"
	testBuyer   = "0xbuyer"
	testSeller  = "0xseller"
	testArbiter = "0xarbiter"
	testSenior  = "0xsenior"
)

type memEscrowRepo struct {
	nextID  uint64
	escrows map[uint64]*domain.Escrow
}

func newMemEscrowRepo() *memEscrowRepo {
	return &memEscrowRepo{nextID: 1, escrows: make(map[uint64]*domain.Escrow)}
}

func (r *memEscrowRepo) CreateEscrow(escrow *domain.Escrow) error {
	escrow.ID = r.nextID
	r.nextID++
	copied := *escrow
	r.escrows[escrow.ID] = &copied
	return nil
}

func (r *memEscrowRepo) GetEscrowByID(escrowID uint64) (*domain.Escrow, error) {
	escrow, ok := r.escrows[escrowID]
	if !ok {
		return nil, fmt.Errorf("escrow %d: %w", escrowID, domain.ErrNotFound)
	}
	copied := *escrow
	return &copied, nil
}

func (r *memEscrowRepo) UpdateEscrow(escrow *domain.Escrow) error {
	if _, ok := r.escrows[escrow.ID]; !ok {
		return fmt.Errorf("escrow %d: %w", escrow.ID, domain.ErrNotFound)
	}
	copied := *escrow
	r.escrows[escrow.ID] = &copied
	return nil
}

func (r *memEscrowRepo) GetEscrowsByParticipant(address string, page, limit int64) ([]*domain.Escrow, int64, error) {
	var matched []*domain.Escrow
	for _, escrow := range r.escrows {
		if escrow.Buyer == address || escrow.Seller == address {
			copied := *escrow
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

type memDisputeRepo struct {
	escalations map[uint64]*domain.DisputeEscalation
	votes       map[string]*domain.ArbiterVote
	tallies     map[uint64]*domain.VoteTally
}

func newMemDisputeRepo() *memDisputeRepo {
	return &memDisputeRepo{
		escalations: make(map[uint64]*domain.DisputeEscalation),
		votes:       make(map[string]*domain.ArbiterVote),
		tallies:     make(map[uint64]*domain.VoteTally),
	}
}

func voteKey(escrowID uint64, arbiter string) string {
	return fmt.Sprintf("%d/%s", escrowID, arbiter)
}

func (r *memDisputeRepo) CreateEscalation(escalation *domain.DisputeEscalation) error {
	copied := *escalation
	r.escalations[escalation.EscrowID] = &copied
	return nil
}

func (r *memDisputeRepo) GetEscalationByEscrowID(escrowID uint64) (*domain.DisputeEscalation, error) {
	escalation, ok := r.escalations[escrowID]
	if !ok {
		return nil, nil
	}
	copied := *escalation
	return &copied, nil
}

func (r *memDisputeRepo) UpdateEscalation(escalation *domain.DisputeEscalation) error {
	copied := *escalation
	r.escalations[escalation.EscrowID] = &copied
	return nil
}

func (r *memDisputeRepo) CreateVote(vote *domain.ArbiterVote) error {
	copied := *vote
	r.votes[voteKey(vote.EscrowID, vote.Arbiter)] = &copied
	return nil
}

func (r *memDisputeRepo) GetVote(escrowID uint64, arbiter string) (*domain.ArbiterVote, error) {
	vote, ok := r.votes[voteKey(escrowID, arbiter)]
	if !ok {
		return nil, nil
	}
	copied := *vote
	return &copied, nil
}

func (r *memDisputeRepo) GetVoteTally(escrowID uint64) (*domain.VoteTally, error) {
	tally, ok := r.tallies[escrowID]
	if !ok {
		return nil, nil
	}
	copied := *tally
	return &copied, nil
}

func (r *memDisputeRepo) SaveVoteTally(tally *domain.VoteTally) error {
	copied := *tally
	r.tallies[tally.EscrowID] = &copied
	return nil
}

type memArbiterRepo struct {
	arbiters map[string]*domain.Arbiter
}

func newMemArbiterRepo() *memArbiterRepo {
	return &memArbiterRepo{arbiters: make(map[string]*domain.Arbiter)}
}

func (r *memArbiterRepo) record(address string) *domain.Arbiter {
	arbiter, ok := r.arbiters[address]
	if !ok {
		arbiter = &domain.Arbiter{Address: address}
		r.arbiters[address] = arbiter
	}
	return arbiter
}

func (r *memArbiterRepo) SetArbiter(address string, enabled bool) error {
	r.record(address).IsArbiter = enabled
	return nil
}

func (r *memArbiterRepo) SetSeniorArbiter(address string, enabled bool) error {
	r.record(address).IsSenior = enabled
	return nil
}

func (r *memArbiterRepo) IsArbiter(address string) (bool, error) {
	arbiter, ok := r.arbiters[address]
	return ok && arbiter.IsArbiter, nil
}

func (r *memArbiterRepo) IsSeniorArbiter(address string) (bool, error) {
	arbiter, ok := r.arbiters[address]
	return ok && arbiter.IsSenior, nil
}

type memStatsRepo struct {
	users    map[string]*domain.UserStats
	protocol domain.ProtocolStats
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{users: make(map[string]*domain.UserStats)}
}

func (r *memStatsRepo) GetUserStats(address string) (*domain.UserStats, error) {
	stats, ok := r.users[address]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (r *memStatsRepo) SaveUserStats(stats *domain.UserStats) error {
	copied := *stats
	r.users[stats.Address] = &copied
	return nil
}

func (r *memStatsRepo) GetProtocolStats() (*domain.ProtocolStats, error) {
	copied := r.protocol
	return &copied, nil
}

func (r *memStatsRepo) SaveProtocolStats(stats *domain.ProtocolStats) error {
	r.protocol = *stats
	return nil
}

type transfer struct {
	From   string
	To     string
	Amount uint64
}

// fakeLedger keeps balances in memory and refuses overdrafts, mirroring the
// all-or-nothing contract of the wallet service.
type fakeLedger struct {
	balances  map[string]uint64
	transfers []transfer
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]uint64)}
}

func (l *fakeLedger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if l.balances[from] < amount {
		return fmt.Errorf("balance of %s is below %d: %w", from, amount, domain.ErrInsufficientFunds)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	l.transfers = append(l.transfers, transfer{From: from, To: to, Amount: amount})
	return nil
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recorderPublisher struct {
	events []domain.Event
}

func (p *recorderPublisher) Publish(events ...domain.Event) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recorderPublisher) lastByName(name string) *domain.Event {
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Name == name {
			return &p.events[i]
		}
	}
	return nil
}

type fixture struct {
	escrows  *memEscrowRepo
	disputes *memDisputeRepo
	arbiters *memArbiterRepo
	stats    *memStatsRepo
	ledger   *fakeLedger
	clock    *fakeClock
	events   *recorderPublisher

	escrowUC  *DefaultEscrowUsecase
	disputeUC *DefaultDisputeUsecase
	arbiterUC *DefaultArbiterUsecase
}

func newFixture() *fixture {
	f := &fixture{
		escrows:  newMemEscrowRepo(),
		disputes: newMemDisputeRepo(),
		arbiters: newMemArbiterRepo(),
		stats:    newMemStatsRepo(),
		ledger:   newFakeLedger(),
		clock:    newFakeClock(),
		events:   &recorderPublisher{},
	}
	f.escrowUC = NewDefaultEscrowUsecase(
		f.escrows, f.stats, f.ledger, f.clock, f.events, nil,
		testOwner, testCustody,
	)
	f.disputeUC = NewDefaultDisputeUsecase(
		f.escrows, f.disputes, f.arbiters, f.stats, f.ledger, f.clock, f.events, nil,
		testOwner, testCustody, 72*time.Hour,
	)
	f.arbiterUC = NewDefaultArbiterUsecase(f.arbiters, f.clock, f.events, testOwner)
	return f
}

func (f *fixture) mustEscrow(id uint64) *domain.Escrow {
	escrow, err := f.escrows.GetEscrowByID(id)
	if err != nil {
		panic(err)
	}
	return escrow
}
