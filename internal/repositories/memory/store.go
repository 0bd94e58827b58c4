// Package memory keeps exchanges, materials, the bid ledger and the roster in
// process memory. It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
)

// Store implements every repository port over maps guarded by one RWMutex.
// Ledger appends and every exchange or material write additionally go through a
// per-exchange mutex, see WithExchangeLock. The per-exchange mutex is taken first.
type Store struct {
	mu sync.RWMutex

	exchanges map[string]domain.Exchange
	materials map[string]domain.Material
	// materialOrder keeps listing order per exchange
	materialOrder map[string][]string

	// ledger is indexed by target key; each slice is in sequence order
	ledger map[string][]domain.BidRecord
	// ledgerTargets lists the target keys written for an exchange
	ledgerTargets map[string]map[string]domain.TargetRef
	seq           atomic.Int64

	bidders  map[string]domain.Bidder
	settings map[string]string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		exchanges:     make(map[string]domain.Exchange),
		materials:     make(map[string]domain.Material),
		materialOrder: make(map[string][]string),
		ledger:        make(map[string][]domain.BidRecord),
		ledgerTargets: make(map[string]map[string]domain.TargetRef),
		bidders:       make(map[string]domain.Bidder),
		settings:      make(map[string]string),
		locks:         make(map[string]*sync.Mutex),
	}
}

var (
	_ portsrepo.ExchangeRepositoryFacade  = (*Store)(nil)
	_ portsrepo.MaterialRepositoryFacade  = (*Store)(nil)
	_ portsrepo.BidLedgerRepositoryFacade = (*Store)(nil)
	_ portsrepo.BidderRepositoryFacade    = (*Store)(nil)
	_ portsrepo.SettingsRepository        = (*Store)(nil)
)

// NewRepositoryProvider wires a fresh Store into every repository slot.
func NewRepositoryProvider(cache portsrepo.RankCache) portsrepo.RepositoryProvider {
	store := NewStore()
	if cache == nil {
		cache = NopRankCache{}
	}
	return portsrepo.RepositoryProvider{
		ExchangeRepo: store,
		MaterialRepo: store,
		LedgerRepo:   store,
		BidderRepo:   store,
		SettingsRepo: store,
		RankCache:    cache,
	}
}

// --- exchanges ---

func (s *Store) FindExchangeByID(_ context.Context, exchangeID string) (*domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ex, ok := s.exchanges[exchangeID]
	if !ok {
		return nil, apperrors.NewNotFoundError("exchange " + exchangeID + " not found")
	}
	return &ex, nil
}

func (s *Store) FindExchangeByName(_ context.Context, name string) (*domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.exchanges {
		if ex.Name == name {
			return &ex, nil
		}
	}
	return nil, apperrors.NewNotFoundError("exchange " + name + " not found")
}

func (s *Store) ListExchanges(_ context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Exchange, 0, len(s.exchanges))
	for _, ex := range s.exchanges {
		if filter.Category != nil && ex.Category != *filter.Category {
			continue
		}
		if filter.Archived != nil && ex.IsArchived != *filter.Archived {
			continue
		}
		if filter.Folder != nil && ex.ArchiveFolder != *filter.Folder {
			continue
		}
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].Deadline.After(out[j].Deadline)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) SaveExchange(_ context.Context, exchange domain.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exchanges[exchange.ExchangeID]; ok {
		return apperrors.NewConflictError("exchange ID " + exchange.ExchangeID + " already exists")
	}
	for _, ex := range s.exchanges {
		if ex.Name == exchange.Name {
			return apperrors.NewConflictError("exchange name " + exchange.Name + " already exists")
		}
	}
	s.exchanges[exchange.ExchangeID] = exchange
	return nil
}

// ModifyExchange holds the exchange mutex, so it serializes with submissions and
// with other lifecycle writes on the same exchange.
func (s *Store) ModifyExchange(_ context.Context, exchangeID string, mutate portsrepo.ExchangeMutation) (*domain.Exchange, error) {
	l := s.exchangeLock(exchangeID)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	current, ok := s.exchanges[exchangeID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("exchange " + exchangeID + " not found")
	}

	next := current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ExchangeID = current.ExchangeID
	next.Name = current.Name
	next.Category = current.Category
	next.Rates = current.Rates
	next.CreatedAt = current.CreatedAt
	next.CreatedBy = current.CreatedBy

	s.mu.Lock()
	s.exchanges[exchangeID] = next
	s.mu.Unlock()
	return &next, nil
}

func (s *Store) DeleteExchange(_ context.Context, exchangeID string) error {
	l := s.exchangeLock(exchangeID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exchanges[exchangeID]; !ok {
		return apperrors.NewNotFoundError("exchange " + exchangeID + " not found")
	}
	for _, id := range s.materialOrder[exchangeID] {
		delete(s.materials, id)
	}
	for key := range s.ledgerTargets[exchangeID] {
		delete(s.ledger, key)
	}
	delete(s.materialOrder, exchangeID)
	delete(s.ledgerTargets, exchangeID)
	delete(s.exchanges, exchangeID)
	return nil
}

// --- materials ---

func (s *Store) FindMaterialByID(_ context.Context, materialID string) (*domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[materialID]
	if !ok {
		return nil, apperrors.NewNotFoundError("material " + materialID + " not found")
	}
	return &m, nil
}

func (s *Store) ListMaterialsByExchange(_ context.Context, exchangeID string) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.materialOrder[exchangeID]
	out := make([]domain.Material, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.materials[id])
	}
	return out, nil
}

func (s *Store) SaveMaterial(_ context.Context, material domain.Material) error {
	l := s.exchangeLock(material.ExchangeID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.exchanges[material.ExchangeID]
	if !ok {
		return apperrors.NewNotFoundError("exchange " + material.ExchangeID + " not found")
	}
	if ex.IsArchived {
		return apperrors.NewValidationError("archived exchange " + material.ExchangeID + " is read-only")
	}
	if _, ok := s.materials[material.MaterialID]; ok {
		return apperrors.NewConflictError("material ID " + material.MaterialID + " already exists")
	}
	s.materials[material.MaterialID] = material
	s.materialOrder[material.ExchangeID] = append(s.materialOrder[material.ExchangeID], material.MaterialID)
	return nil
}

func (s *Store) DeleteMaterial(_ context.Context, materialID string) error {
	s.mu.RLock()
	m, ok := s.materials[materialID]
	s.mu.RUnlock()
	if !ok {
		return apperrors.NewNotFoundError("material " + materialID + " not found")
	}

	l := s.exchangeLock(m.ExchangeID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[materialID]; !ok {
		return apperrors.NewNotFoundError("material " + materialID + " not found")
	}
	if s.exchanges[m.ExchangeID].IsArchived {
		return apperrors.NewValidationError("archived exchange " + m.ExchangeID + " is read-only")
	}
	order := s.materialOrder[m.ExchangeID]
	for i, id := range order {
		if id == materialID {
			s.materialOrder[m.ExchangeID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	delete(s.materials, materialID)
	return nil
}

// --- roster ---

func (s *Store) FindBidderByID(_ context.Context, bidderID string) (*domain.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bidders[bidderID]
	if !ok {
		return nil, apperrors.NewNotFoundError("bidder " + bidderID + " not found")
	}
	return &b, nil
}

func (s *Store) ListActiveBidders(_ context.Context, category domain.Category) ([]domain.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bidder, 0)
	for _, b := range s.bidders {
		if b.IsActive && b.Category == category {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Email) < strings.ToLower(out[j].Email) })
	return out, nil
}

func (s *Store) SaveBidder(_ context.Context, bidder domain.Bidder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.bidders {
		if id != bidder.BidderID && other.Email == bidder.Email {
			return apperrors.NewConflictError("email " + bidder.Email + " is already on the roster")
		}
	}
	s.bidders[bidder.BidderID] = bidder
	return nil
}

// --- settings ---

func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return "", apperrors.NewNotFoundError("setting " + key + " not found")
	}
	return v, nil
}

func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}
