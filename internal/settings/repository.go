package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/istmoglobal/storefront/internal/platform/db"
)

// siteRowID is the primary key of the singleton settings row.
const siteRowID = 1

// Repository provides PostgreSQL backed persistence for site settings.
type Repository struct {
	q db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(q db.DBTX) *Repository {
	return &Repository{q: q}
}

// Get loads the settings row. It reports false when the row does not exist.
func (r *Repository) Get(ctx context.Context) (Settings, bool, error) {
	var s Settings
	err := r.q.QueryRow(ctx, `SELECT show_prices, updated_at FROM settings WHERE id = $1`, siteRowID).
		Scan(&s.ShowPrices, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, false, nil
		}
		return Settings{}, false, fmt.Errorf("settings: get: %w", err)
	}
	return s, true, nil
}

// Save upserts the singleton row.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (id, show_prices, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET show_prices = EXCLUDED.show_prices, updated_at = EXCLUDED.updated_at`,
		siteRowID, s.ShowPrices, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}
