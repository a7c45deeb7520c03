package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/istmoglobal/storefront/internal/auth"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id string) error
}

// Service handles user business logic.
type Service struct {
	repo  RepositoryPort
	now   func() time.Time
	newID func() string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// ListUsers returns all users, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches one user.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser creates an account with any role.
func (s *Service) CreateUser(ctx context.Context, in CreateInput) (User, error) {
	if !in.Role.Valid() {
		return User{}, ErrInvalidRole
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           s.newID(),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	apply(&u, in.UpdateInput)
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpdateUser overwrites email, role, name, company and details.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateInput) (User, error) {
	if !in.Role.Valid() {
		return User{}, ErrInvalidRole
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	apply(&u, in)
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// DeleteUser removes the account id on behalf of actorID.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID != "" && actorID == id {
		return ErrSelfDelete
	}
	return s.repo.DeleteUser(ctx, id)
}

func apply(u *User, in UpdateInput) {
	u.Email = strings.TrimSpace(in.Email)
	u.Role = in.Role
	u.Name = strings.TrimSpace(in.Name)
	u.Company = strings.TrimSpace(in.Company)
	u.Details = in.Details
}
