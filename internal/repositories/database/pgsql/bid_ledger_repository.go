package pgsql

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/SscSPs/reverse_auction_app/internal/models"
	"github.com/SscSPs/reverse_auction_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBidLedgerRepository is the append-only ledger. Reads outside a lock go to the
// pool and see committed rows only.
type PgxBidLedgerRepository struct {
	BaseRepository
	ledgerQueries
}

func newPgxBidLedgerRepository(pool *pgxpool.Pool) *PgxBidLedgerRepository {
	return &PgxBidLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerQueries:  ledgerQueries{db: pool},
	}
}

var (
	_ portsrepo.BidLedgerRepositoryFacade = (*PgxBidLedgerRepository)(nil)
	_ portsrepo.LedgerUnitOfWork          = (*ledgerQueries)(nil)
)

// WithExchangeLock opens a transaction, locks the exchange row and hands fn a unit
// of work bound to the transaction. Concurrent submissions on the same exchange
// queue on the row lock.
func (r *PgxBidLedgerRepository) WithExchangeLock(ctx context.Context, exchangeID string, fn portsrepo.LockedFunc) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		ex, err := lockExchange(ctx, tx, exchangeID)
		if err != nil {
			return err
		}
		return fn(ctx, *ex, &ledgerQueries{db: tx})
	})
}

// ledgerQueries holds every ledger statement. Each one filters on an indexed prefix:
// (target_kind, target_id, bidder_id, seq) or (exchange_id, target_kind, target_id, bidder_id, seq).
type ledgerQueries struct {
	db dbtx
}

const bidColumns = `seq, exchange_id, target_kind, target_id, bidder_id,
	amount_home, amount_eur, amount_usd, normalized_value, substitute_note, created_at`

func (q *ledgerQueries) collect(ctx context.Context, query string, args ...any) ([]models.BidRecord, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bid ledger", err)
	}
	defer rows.Close()
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BidRecord])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect bid rows", err)
	}
	return records, nil
}

func (q *ledgerQueries) AppendBid(ctx context.Context, rec domain.BidRecord) (domain.BidRecord, error) {
	m := mapping.ToModelBidRecord(rec)
	err := q.db.QueryRow(ctx, `
		INSERT INTO bid_records (
			exchange_id, target_kind, target_id, bidder_id,
			amount_home, amount_eur, amount_usd, normalized_value, substitute_note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`,
		m.ExchangeID, m.TargetKind, m.TargetID, m.BidderID,
		m.AmountHome, m.AmountEUR, m.AmountUSD, m.NormalizedValue, m.SubstituteNote, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return domain.BidRecord{}, apperrors.NewAppError(500, "failed to append bid", err)
	}
	return mapping.ToDomainBidRecord(m), nil
}

func (q *ledgerQueries) perBidder(ctx context.Context, target domain.TargetRef, order string) ([]domain.BidderValue, error) {
	records, err := q.collect(ctx, `
		SELECT DISTINCT ON (bidder_id) `+bidColumns+`
		FROM bid_records
		WHERE target_kind = $1 AND target_id = $2
		ORDER BY bidder_id, seq `+order,
		string(target.Kind), target.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BidderValue, len(records))
	for i, m := range records {
		out[i] = mapping.ToDomainBidderValue(m)
	}
	return out, nil
}

func (q *ledgerQueries) LatestPerBidder(ctx context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return q.perBidder(ctx, target, "DESC")
}

func (q *ledgerQueries) OpeningPerBidder(ctx context.Context, target domain.TargetRef) ([]domain.BidderValue, error) {
	return q.perBidder(ctx, target, "ASC")
}

func (q *ledgerQueries) BidHistory(ctx context.Context, target domain.TargetRef, bidderID string) ([]domain.BidRecord, error) {
	records, err := q.collect(ctx, `
		SELECT `+bidColumns+`
		FROM bid_records
		WHERE target_kind = $1 AND target_id = $2 AND bidder_id = $3
		ORDER BY seq`,
		string(target.Kind), target.ID, bidderID)
	if err != nil {
		return nil, err
	}
	return toDomainBidRecords(records), nil
}

func (q *ledgerQueries) perMaterial(ctx context.Context, exchangeID, order string) ([]domain.BidRecord, error) {
	records, err := q.collect(ctx, `
		SELECT DISTINCT ON (target_id, bidder_id) `+bidColumns+`
		FROM bid_records
		WHERE exchange_id = $1 AND target_kind = $2
			AND target_id IN (SELECT material_id FROM materials WHERE exchange_id = $1)
		ORDER BY target_id, bidder_id, seq `+order,
		exchangeID, string(domain.TargetMaterial))
	if err != nil {
		return nil, err
	}
	return toDomainBidRecords(records), nil
}

func (q *ledgerQueries) LatestPerMaterial(ctx context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return q.perMaterial(ctx, exchangeID, "DESC")
}

func (q *ledgerQueries) OpeningPerMaterial(ctx context.Context, exchangeID string) ([]domain.BidRecord, error) {
	return q.perMaterial(ctx, exchangeID, "ASC")
}

func toDomainBidRecords(records []models.BidRecord) []domain.BidRecord {
	out := make([]domain.BidRecord, len(records))
	for i, m := range records {
		out[i] = mapping.ToDomainBidRecord(m)
	}
	return out
}
