package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/istmoglobal/storefront/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	q db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(q db.DBTX) *Repository {
	return &Repository{q: q}
}

const userColumns = `id, email, role, name, coalesce(company, ''), details, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Company, &u.Details, &u.CreatedAt)
	return u, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListUsers returns all users, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

// CreateUser inserts u including its password hash.
func (r *Repository) CreateUser(ctx context.Context, u User) error {
	_, err := r.q.Exec(ctx, `INSERT INTO users (id, email, role, name, company, password, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Role, u.Name, nullable(u.Company), u.PasswordHash, u.Details, u.CreatedAt)
	if err != nil {
		if db.IsCode(err, db.CodeUniqueViolation) {
			return ErrEmailTaken
		}
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// UpdateUser overwrites the profile fields. The password is untouched.
func (r *Repository) UpdateUser(ctx context.Context, u User) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET email = $2, role = $3, name = $4, company = $5, details = $6 WHERE id = $1`,
		u.ID, u.Email, u.Role, u.Name, nullable(u.Company), u.Details)
	if err != nil {
		if db.IsCode(err, db.CodeUniqueViolation) {
			return ErrEmailTaken
		}
		return fmt.Errorf("users: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
