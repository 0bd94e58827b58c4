package services_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
)

// --- Mock NotificationDispatcher ---
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) DispatchDisplacement(ctx context.Context, event domain.DisplacementEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotificationDispatcher) DispatchInvitation(ctx context.Context, invitation domain.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) SuggestRates(ctx context.Context) domain.Rates {
	args := m.Called(ctx)
	return args.Get(0).(domain.Rates)
}

// countingRankCache is a generation cache in process memory that counts hits.
type countingRankCache struct {
	mu          sync.Mutex
	generations map[string]int64
	tables      map[string]domain.RankTable
	hits        int
	writes      int
}

func newCountingRankCache() *countingRankCache {
	return &countingRankCache{
		generations: make(map[string]int64),
		tables:      make(map[string]domain.RankTable),
	}
}

func cacheKey(exchangeID string, generation int64, target domain.TargetRef) string {
	return fmt.Sprintf("%s|%d|%s", exchangeID, generation, target.Key())
}

func (c *countingRankCache) Generation(_ context.Context, exchangeID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[exchangeID], nil
}

func (c *countingRankCache) GetRankTable(_ context.Context, exchangeID string, generation int64, target domain.TargetRef) (*domain.RankTable, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table, ok := c.tables[cacheKey(exchangeID, generation, target)]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &table, true, nil
}

func (c *countingRankCache) SetRankTable(_ context.Context, generation int64, table domain.RankTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	c.tables[cacheKey(table.ExchangeID, generation, table.Target)] = table
	return nil
}

func (c *countingRankCache) InvalidateExchange(_ context.Context, exchangeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[exchangeID]++
	return nil
}

// --- Gated store wrappers ---

// gate pauses the first caller that passes through it until release is closed.
type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) pass() {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
}

// gatedExchangeRepo holds the first lifecycle write after the row is read under lock.
type gatedExchangeRepo struct {
	*memory.Store
	gate *gate
}

func (r *gatedExchangeRepo) ModifyExchange(ctx context.Context, exchangeID string, mutate portsrepo.ExchangeMutation) (*domain.Exchange, error) {
	return r.Store.ModifyExchange(ctx, exchangeID, func(ex *domain.Exchange) error {
		r.gate.pass()
		return mutate(ex)
	})
}

// gatedLedger holds the first submission after its append and before commit.
type gatedLedger struct {
	*memory.Store
	gate *gate
}

func (l *gatedLedger) WithExchangeLock(ctx context.Context, exchangeID string, fn portsrepo.LockedFunc) error {
	return l.Store.WithExchangeLock(ctx, exchangeID, func(ctx context.Context, ex domain.Exchange, uow portsrepo.LedgerUnitOfWork) error {
		err := fn(ctx, ex, uow)
		l.gate.pass()
		return err
	})
}
