package prospects

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for prospects.
type RepositoryPort interface {
	Create(ctx context.Context, p Prospect) error
	List(ctx context.Context) ([]Prospect, error)
	Get(ctx context.Context, id string) (Prospect, error)
	Update(ctx context.Context, p Prospect) error
	Delete(ctx context.Context, id string) error
}

// Service handles prospect business logic.
type Service struct {
	repo  RepositoryPort
	now   func() time.Time
	newID func() string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit records a New prospect from the contact form.
func (s *Service) Submit(ctx context.Context, in ContactInput) (Prospect, error) {
	p := Prospect{
		ID:                s.newID(),
		Name:              strings.TrimSpace(in.Name),
		Company:           strings.TrimSpace(in.Company),
		Country:           strings.TrimSpace(in.Country),
		Email:             strings.TrimSpace(in.Email),
		ProductOfInterest: optional(in.ProductOfInterest),
		Message:           strings.TrimSpace(in.Message),
		Status:            StatusNew,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Prospect{}, err
	}
	return p, nil
}

// List returns every prospect, newest first.
func (s *Service) List(ctx context.Context) ([]Prospect, error) {
	return s.repo.List(ctx)
}

// Get fetches one prospect.
func (s *Service) Get(ctx context.Context, id string) (Prospect, error) {
	return s.repo.Get(ctx, id)
}

// Update overwrites the editable fields of a prospect.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Prospect, error) {
	if !in.Status.Valid() {
		return Prospect{}, ErrInvalidStatus
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Prospect{}, err
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Company = strings.TrimSpace(in.Company)
	current.Country = strings.TrimSpace(in.Country)
	current.Email = strings.TrimSpace(in.Email)
	current.ProductOfInterest = optional(in.ProductOfInterest)
	current.Message = strings.TrimSpace(in.Message)
	current.Status = in.Status
	if err := s.repo.Update(ctx, current); err != nil {
		return Prospect{}, err
	}
	return current, nil
}

// Delete removes a prospect.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
