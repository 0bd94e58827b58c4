package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/SscSPs/reverse_auction_app/internal/models"
	"github.com/SscSPs/reverse_auction_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRepository implements portsrepo.ExchangeRepositoryFacade using pgxpool.
type PgxExchangeRepository struct {
	BaseRepository
}

func newPgxExchangeRepository(pool *pgxpool.Pool) *PgxExchangeRepository {
	return &PgxExchangeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRepositoryFacade = (*PgxExchangeRepository)(nil)

const exchangeSelectQuery = `
SELECT
	exchange_id, name, category, deadline, is_locked, is_archived, archive_folder,
	eur_rate, usd_rate, notify_enabled, description, incoterms, port_of_loading,
	pickup_date, customs_code, created_at, created_by, last_updated_at, last_updated_by
FROM exchanges
`

// queryExchanges runs exchangeSelectQuery with a filter on db.
func queryExchanges(ctx context.Context, db dbtx, filterQuery string, args ...any) ([]domain.Exchange, error) {
	rows, err := db.Query(ctx, exchangeSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query exchanges", err)
	}
	defer rows.Close()
	modelExchanges, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Exchange])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect exchange rows", err)
	}
	return mapping.ToDomainExchanges(modelExchanges), nil
}

func (r *PgxExchangeRepository) findOne(ctx context.Context, filterQuery string, arg any, label string) (*domain.Exchange, error) {
	exchanges, err := queryExchanges(ctx, r.Pool, filterQuery, arg)
	if err != nil {
		return nil, err
	}
	if len(exchanges) == 0 {
		return nil, apperrors.NewNotFoundError("exchange " + label + " not found")
	}
	return &exchanges[0], nil
}

func (r *PgxExchangeRepository) FindExchangeByID(ctx context.Context, exchangeID string) (*domain.Exchange, error) {
	return r.findOne(ctx, `WHERE exchange_id = $1`, exchangeID, exchangeID)
}

func (r *PgxExchangeRepository) FindExchangeByName(ctx context.Context, name string) (*domain.Exchange, error) {
	return r.findOne(ctx, `WHERE name = $1`, name, name)
}

func (r *PgxExchangeRepository) ListExchanges(ctx context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error) {
	query := `WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, string(*filter.Category))
		argNum++
	}
	if filter.Archived != nil {
		query += fmt.Sprintf(" AND is_archived = $%d", argNum)
		args = append(args, *filter.Archived)
		argNum++
	}
	if filter.Folder != nil {
		query += fmt.Sprintf(" AND archive_folder = $%d", argNum)
		args = append(args, *filter.Folder)
	}
	query += " ORDER BY deadline DESC, name"

	return queryExchanges(ctx, r.Pool, query, args...)
}

func (r *PgxExchangeRepository) SaveExchange(ctx context.Context, exchange domain.Exchange) error {
	m := mapping.ToModelExchange(exchange)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchanges (
			exchange_id, name, category, deadline, is_locked, is_archived, archive_folder,
			eur_rate, usd_rate, notify_enabled, description, incoterms, port_of_loading,
			pickup_date, customs_code, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		m.ExchangeID, m.Name, m.Category, m.Deadline, m.IsLocked, m.IsArchived, m.ArchiveFolder,
		m.EURRate, m.USDRate, m.NotifyEnabled, m.Description, m.Incoterms, m.PortOfLoading,
		m.PickupDate, m.CustomsCode, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("exchange " + m.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save exchange "+m.ExchangeID, err)
	}
	return nil
}

// ModifyExchange reads the row FOR UPDATE, so it queues behind submissions and other
// lifecycle writes holding the same row lock.
func (r *PgxExchangeRepository) ModifyExchange(ctx context.Context, exchangeID string, mutate portsrepo.ExchangeMutation) (*domain.Exchange, error) {
	var updated *domain.Exchange
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		exchange, err := selectExchangeForUpdate(ctx, tx, exchangeID)
		if err != nil {
			return err
		}
		if err := mutate(exchange); err != nil {
			return err
		}
		if err := updateExchange(ctx, tx, *exchange); err != nil {
			return err
		}
		updated = exchange
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func updateExchange(ctx context.Context, tx pgx.Tx, exchange domain.Exchange) error {
	m := mapping.ToModelExchange(exchange)
	_, err := tx.Exec(ctx, `
		UPDATE exchanges SET
			is_locked = $2, is_archived = $3, archive_folder = $4, notify_enabled = $5,
			description = $6, incoterms = $7, port_of_loading = $8, pickup_date = $9,
			customs_code = $10, last_updated_at = $11, last_updated_by = $12
		WHERE exchange_id = $1`,
		m.ExchangeID, m.IsLocked, m.IsArchived, m.ArchiveFolder, m.NotifyEnabled,
		m.Description, m.Incoterms, m.PortOfLoading, m.PickupDate,
		m.CustomsCode, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update exchange "+m.ExchangeID, err)
	}
	return nil
}

// DeleteExchange relies on ON DELETE CASCADE for materials and bid_records.
func (r *PgxExchangeRepository) DeleteExchange(ctx context.Context, exchangeID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM exchanges WHERE exchange_id = $1`, exchangeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete exchange "+exchangeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("exchange " + exchangeID + " not found")
	}
	return nil
}

// selectExchangeForUpdate reads the exchange row with FOR UPDATE inside tx.
func selectExchangeForUpdate(ctx context.Context, tx pgx.Tx, exchangeID string) (*domain.Exchange, error) {
	exchanges, err := queryExchanges(ctx, tx, `WHERE exchange_id = $1 FOR UPDATE`, exchangeID)
	if err != nil {
		return nil, err
	}
	if len(exchanges) == 0 {
		return nil, apperrors.NewNotFoundError("exchange " + exchangeID + " not found")
	}
	return &exchanges[0], nil
}

// lockExchange is selectExchangeForUpdate for submissions, where a missing exchange
// is an unknown target.
func lockExchange(ctx context.Context, tx pgx.Tx, exchangeID string) (*domain.Exchange, error) {
	exchange, err := selectExchangeForUpdate(ctx, tx, exchangeID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(404, "exchange "+exchangeID+" not found", apperrors.ErrUnknownTarget)
	}
	return exchange, err
}
