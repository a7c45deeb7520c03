package prospects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/istmoglobal/storefront/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for prospects.
type Repository struct {
	q db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(q db.DBTX) *Repository {
	return &Repository{q: q}
}

const prospectColumns = `id, name, company, country, email, product_of_interest, message, status, created_at`

func scanProspect(row pgx.Row) (Prospect, error) {
	var p Prospect
	err := row.Scan(&p.ID, &p.Name, &p.Company, &p.Country, &p.Email, &p.ProductOfInterest, &p.Message, &p.Status, &p.CreatedAt)
	return p, err
}

func (r *Repository) Create(ctx context.Context, p Prospect) error {
	_, err := r.q.Exec(ctx, `INSERT INTO prospects (`+prospectColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Company, p.Country, p.Email, p.ProductOfInterest, p.Message, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("prospects: create: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Prospect, error) {
	rows, err := r.q.Query(ctx, `SELECT `+prospectColumns+` FROM prospects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("prospects: list: %w", err)
	}
	defer rows.Close()
	out := make([]Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (Prospect, error) {
	p, err := scanProspect(r.q.QueryRow(ctx, `SELECT `+prospectColumns+` FROM prospects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Prospect{}, ErrNotFound
		}
		return Prospect{}, fmt.Errorf("prospects: get: %w", err)
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, p Prospect) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE prospects
		SET name = $2, company = $3, country = $4, email = $5, product_of_interest = $6, message = $7, status = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Company, p.Country, p.Email, p.ProductOfInterest, p.Message, p.Status)
	if err != nil {
		return fmt.Errorf("prospects: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("prospects: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
