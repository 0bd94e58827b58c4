package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
)

func (s *Store) exchangeLock(exchangeID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[exchangeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[exchangeID] = l
	}
	return l
}

// WithExchangeLock holds the exchange mutex for the whole of fn. Appends made through
// the unit of work stay private until fn returns nil, then become visible together.
func (s *Store) WithExchangeLock(ctx context.Context, exchangeID string, fn portsrepo.LockedFunc) error {
	l := s.exchangeLock(exchangeID)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	ex, ok := s.exchanges[exchangeID]
	s.mu.RUnlock()
	if !ok {
		return apperrors.NewAppError(404, "exchange "+exchangeID+" not found", apperrors.ErrUnknownTarget)
	}

	uow := &unitOfWork{store: s, exchangeID: exchangeID}
	if err := fn(ctx, ex, uow); err != nil {
		return err
	}
	return s.commit(exchangeID, uow.pending)
}

func (s *Store) commit(exchangeID string, pending []domain.BidRecord) error {
	if len(pending) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exchanges[exchangeID]; !ok {
		return apperrors.NewAppError(404, "exchange "+exchangeID+" was deleted", apperrors.ErrUnknownTarget)
	}
	targets, ok := s.ledgerTargets[exchangeID]
	if !ok {
		targets = make(map[string]domain.TargetRef)
		s.ledgerTargets[exchangeID] = targets
	}
	for _, rec := range pending {
		key := rec.Target.Key()
		s.ledger[key] = append(s.ledger[key], rec)
		targets[key] = rec.Target
	}
	return nil
}

// targetRecords copies the committed entries of one target.
func (s *Store) targetRecords(target domain.TargetRef) []domain.BidRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.ledger[target.Key()]
	out := make([]domain.BidRecord, len(src))
	copy(out, src)
	return out
}

// materialRecords copies the committed entries of the live materials of one exchange.
func (s *Store) materialRecords(exchangeID string) []domain.BidRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.BidRecord
	for key, target := range s.ledgerTargets[exchangeID] {
		if target.Kind != domain.TargetMaterial {
			continue
		}
		if _, live := s.materials[target.ID]; live {
			out = append(out, s.ledger[key]...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (s *Store) LatestPerBidder(_ context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return latestPerBidder(s.targetRecords(target)), nil
}

func (s *Store) OpeningPerBidder(_ context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return openingPerBidder(s.targetRecords(target)), nil
}

func (s *Store) BidHistory(_ context.Context, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error) {
	return historyOf(s.targetRecords(target), bidderID), nil
}

func (s *Store) LatestPerMaterial(_ context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return pairEnds(s.materialRecords(exchangeID), true), nil
}

func (s *Store) OpeningPerMaterial(_ context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return pairEnds(s.materialRecords(exchangeID), false), nil
}

// unitOfWork reads committed entries merged with its own pending appends.
type unitOfWork struct {
	store      *Store
	exchangeID string
	pending    []domain.BidRecord
}

func (u *unitOfWork) AppendBid(_ context.Context, rec domain.BidRecord) (domain.BidRecord, error) {
	if rec.ExchangeID != u.exchangeID {
		return domain.BidRecord{}, apperrors.NewValidationError("bid does not belong to the locked exchange")
	}
	rec.Sequence = u.store.seq.Add(1)
	u.pending = append(u.pending, rec)
	return rec, nil
}

func (u *unitOfWork) withPending(records []domain.BidRecord, keep func(domain.BidRecord) bool) []domain.BidRecord {
	for _, rec := range u.pending {
		if keep(rec) {
			records = append(records, rec)
		}
	}
	return records
}

func (u *unitOfWork) targetRecords(target domain.TargetRef) []domain.BidRecord {
	return u.withPending(u.store.targetRecords(target), func(r domain.BidRecord) bool { return r.Target == target })
}

func (u *unitOfWork) materialRecords(exchangeID string) []domain.BidRecord {
	return u.withPending(u.store.materialRecords(exchangeID), func(r domain.BidRecord) bool {
		return r.ExchangeID == exchangeID && r.Target.Kind == domain.TargetMaterial
	})
}

func (u *unitOfWork) LatestPerBidder(_ context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return latestPerBidder(u.targetRecords(target)), nil
}

func (u *unitOfWork) OpeningPerBidder(_ context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return openingPerBidder(u.targetRecords(target)), nil
}

func (u *unitOfWork) BidHistory(_ context.Context, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error) {
	return historyOf(u.targetRecords(target), bidderID), nil
}

func (u *unitOfWork) LatestPerMaterial(_ context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return pairEnds(u.materialRecords(exchangeID), true), nil
}

func (u *unitOfWork) OpeningPerMaterial(_ context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return pairEnds(u.materialRecords(exchangeID), false), nil
}

// The helpers below expect records in ascending sequence order.

func toBidderValue(rec domain.BidRecord) domain.BidderValue {
	return domain.BidderValue{
		BidderID:       rec.BidderID,
		Value:          rec.NormalizedValue,
		Sequence:       rec.Sequence,
		SubstituteNote: rec.SubstituteNote,
	}
}

func latestPerBidder(records []domain.BidRecord) []domain.BidderValue {
	latest := make(map[string]domain.BidRecord)
	for _, rec := range records {
		if cur, ok := latest[rec.BidderID]; !ok || rec.Sequence > cur.Sequence {
			latest[rec.BidderID] = rec
		}
	}
	return bidderValues(latest)
}

func openingPerBidder(records []domain.BidRecord) []domain.BidderValue {
	opening := make(map[string]domain.BidRecord)
	for _, rec := range records {
		if cur, ok := opening[rec.BidderID]; !ok || rec.Sequence < cur.Sequence {
			opening[rec.BidderID] = rec
		}
	}
	return bidderValues(opening)
}

func bidderValues(byBidder map[string]domain.BidRecord) []domain.BidderValue {
	out := make([]domain.BidderValue, 0, len(byBidder))
	for _, rec := range byBidder {
		out = append(out, toBidderValue(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BidderID < out[j].BidderID })
	return out
}

func historyOf(records []domain.BidRecord, bidderID string) []domain.BidRecord {
	out := make([]domain.BidRecord, 0)
	for _, rec := range records {
		if rec.BidderID == bidderID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// pairEnds keeps the newest (or oldest) entry of every (target, bidder) pair.
func pairEnds(records []domain.BidRecord, newest bool) []domain.BidRecord {
	type pair struct{ target, bidder string }
	picked := make(map[pair]domain.BidRecord)
	for _, rec := range records {
		k := pair{rec.Target.ID, rec.BidderID}
		cur, ok := picked[k]
		if !ok || (newest && rec.Sequence > cur.Sequence) || (!newest && rec.Sequence < cur.Sequence) {
			picked[k] = rec
		}
	}
	out := make([]domain.BidRecord, 0, len(picked))
	for _, rec := range picked {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Target.ID != out[j].Target.ID {
			return out[i].Target.ID < out[j].Target.ID
		}
		return out[i].BidderID < out[j].BidderID
	})
	return out
}
