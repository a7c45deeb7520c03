package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/istmoglobal/storefront/internal/platform/db"
)

// Credential pairs a user id with its stored password.
type Credential struct {
	ID       string
	Email    string
	Password string
}

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	q db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{q: pool}
}

// FindByEmail fetches a user by email, ignoring case.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	var company *string
	err := r.q.QueryRow(ctx, `SELECT id, email, role, name, company, password, details, created_at
		FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Email, &u.Role, &u.Name, &company, &u.PasswordHash, &u.Details, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	if company != nil {
		u.Company = *company
	}
	return u, nil
}

// Create inserts a new user.
func (r *PGRepository) Create(ctx context.Context, u User) error {
	var company *string
	if u.Company != "" {
		company = &u.Company
	}
	_, err := r.q.Exec(ctx, `INSERT INTO users (id, email, role, name, company, password, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Role, u.Name, company, u.PasswordHash, u.Details, u.CreatedAt)
	if err != nil {
		if db.IsCode(err, db.CodeUniqueViolation) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ListCredentials returns every stored password for maintenance tooling.
func (r *PGRepository) ListCredentials(ctx context.Context) ([]Credential, error) {
	rows, err := r.q.Query(ctx, `SELECT id, email, password FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()
	creds := make([]Credential, 0)
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.Email, &c.Password); err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

// UpdatePasswordHash replaces the stored password of a user.
func (r *PGRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
