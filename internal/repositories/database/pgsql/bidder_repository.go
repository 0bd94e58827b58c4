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

// PgxBidderRepository reads and writes the bidder roster.
type PgxBidderRepository struct {
	BaseRepository
}

func newPgxBidderRepository(pool *pgxpool.Pool) *PgxBidderRepository {
	return &PgxBidderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BidderRepositoryFacade = (*PgxBidderRepository)(nil)

func (r *PgxBidderRepository) getBidders(ctx context.Context, filterQuery string, args ...any) ([]domain.Bidder, error) {
	rows, err := r.Pool.Query(ctx, `SELECT bidder_id, email, category, is_active FROM bidders `+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bidders", err)
	}
	defer rows.Close()
	modelBidders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Bidder])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect bidder rows", err)
	}
	out := make([]domain.Bidder, len(modelBidders))
	for i, m := range modelBidders {
		out[i] = mapping.ToDomainBidder(m)
	}
	return out, nil
}

func (r *PgxBidderRepository) FindBidderByID(ctx context.Context, bidderID string) (*domain.Bidder, error) {
	bidders, err := r.getBidders(ctx, `WHERE bidder_id = $1`, bidderID)
	if err != nil {
		return nil, err
	}
	if len(bidders) == 0 {
		return nil, apperrors.NewNotFoundError("bidder " + bidderID + " not found")
	}
	return &bidders[0], nil
}

func (r *PgxBidderRepository) ListActiveBidders(ctx context.Context, category domain.Category) ([]domain.Bidder, error) {
	return r.getBidders(ctx, `WHERE category = $1 AND is_active ORDER BY lower(email)`, string(category))
}

func (r *PgxBidderRepository) SaveBidder(ctx context.Context, bidder domain.Bidder) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO bidders (bidder_id, email, category, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bidder_id) DO UPDATE
		SET email = EXCLUDED.email, category = EXCLUDED.category, is_active = EXCLUDED.is_active`,
		bidder.BidderID, bidder.Email, string(bidder.Category), bidder.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email " + bidder.Email + " is already on the roster")
		}
		return apperrors.NewAppError(500, "failed to save bidder "+bidder.BidderID, err)
	}
	return nil
}
