package pgsql

import (
	"context"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettingsRepository stores key-value settings.
type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.Pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return "", apperrors.NewNotFoundError("setting " + key + " not found")
		}
		return "", apperrors.NewAppError(500, "failed to read setting "+key, err)
	}
	return value, nil
}

func (r *PgxSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return apperrors.NewAppError(500, "failed to store setting "+key, err)
	}
	return nil
}
