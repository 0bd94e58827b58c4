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

// PgxMaterialRepository implements portsrepo.MaterialRepositoryFacade using pgxpool.
type PgxMaterialRepository struct {
	BaseRepository
}

func newPgxMaterialRepository(pool *pgxpool.Pool) *PgxMaterialRepository {
	return &PgxMaterialRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MaterialRepositoryFacade = (*PgxMaterialRepository)(nil)

const materialSelectQuery = `
SELECT
	material_id, exchange_id, name, quantity, net_weight, gross_weight, volume,
	kg_per_metre, length_m, hs_code, customs_code,
	created_at, created_by, last_updated_at, last_updated_by
FROM materials
`

func (r *PgxMaterialRepository) getMaterials(ctx context.Context, filterQuery string, args ...any) ([]domain.Material, error) {
	rows, err := r.Pool.Query(ctx, materialSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query materials", err)
	}
	defer rows.Close()
	modelMaterials, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Material])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect material rows", err)
	}
	out := make([]domain.Material, len(modelMaterials))
	for i, m := range modelMaterials {
		out[i] = mapping.ToDomainMaterial(m)
	}
	return out, nil
}

func (r *PgxMaterialRepository) FindMaterialByID(ctx context.Context, materialID string) (*domain.Material, error) {
	materials, err := r.getMaterials(ctx, `WHERE material_id = $1`, materialID)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, apperrors.NewNotFoundError("material " + materialID + " not found")
	}
	return &materials[0], nil
}

func (r *PgxMaterialRepository) ListMaterialsByExchange(ctx context.Context, exchangeID string) ([]domain.Material, error) {
	return r.getMaterials(ctx, `WHERE exchange_id = $1 ORDER BY created_at, material_id`, exchangeID)
}

// SaveMaterial locks the owning exchange so the line cannot land on an exchange that
// is being archived.
func (r *PgxMaterialRepository) SaveMaterial(ctx context.Context, material domain.Material) error {
	m := mapping.ToModelMaterial(material)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		exchange, err := selectExchangeForUpdate(ctx, tx, m.ExchangeID)
		if err != nil {
			return err
		}
		if exchange.IsArchived {
			return apperrors.NewValidationError("archived exchange " + m.ExchangeID + " is read-only")
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO materials (
				material_id, exchange_id, name, quantity, net_weight, gross_weight, volume,
				kg_per_metre, length_m, hs_code, customs_code,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			m.MaterialID, m.ExchangeID, m.Name, m.Quantity, m.NetWeight, m.GrossWeight, m.Volume,
			m.KgPerMetre, m.LengthM, m.HSCode, m.CustomsCode,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewConflictError("material " + m.MaterialID + " already exists")
			}
			return apperrors.NewAppError(500, "failed to save material "+m.MaterialID, err)
		}
		return nil
	})
}

// DeleteMaterial takes the owning exchange lock so it cannot interleave with a submission.
// bid_records rows of the material stay; ledger reads filter on live materials.
func (r *PgxMaterialRepository) DeleteMaterial(ctx context.Context, materialID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var archived bool
		err := tx.QueryRow(ctx, `
			SELECT e.is_archived FROM exchanges e
			JOIN materials m ON m.exchange_id = e.exchange_id
			WHERE m.material_id = $1
			FOR UPDATE OF e`, materialID).Scan(&archived)
		if err != nil {
			if isNoRows(err) {
				return apperrors.NewNotFoundError("material " + materialID + " not found")
			}
			return apperrors.NewAppError(500, "failed to lock exchange of material "+materialID, err)
		}
		if archived {
			return apperrors.NewValidationError("material " + materialID + " belongs to an archived exchange")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM materials WHERE material_id = $1`, materialID); err != nil {
			return apperrors.NewAppError(500, "failed to delete material "+materialID, err)
		}
		return nil
	})
}
