package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for orders.
type RepositoryPort interface {
	Create(ctx context.Context, o Order) error
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Get(ctx context.Context, id string) (Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Service handles order business logic.
type Service struct {
	repo  RepositoryPort
	now   func() time.Time
	newID func() string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// Create persists a Pending order.
func (s *Service) Create(ctx context.Context, in NewOrder) (Order, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Items) == "" || in.Total < 0 {
		return Order{}, ErrInvalidOrder
	}
	o := Order{
		ID:        s.newID(),
		UserID:    in.UserID,
		UserName:  in.UserName,
		Items:     in.Items,
		Total:     in.Total,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListForUser returns the orders of one customer, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get fetches an order.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus moves an order to status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, id)
}
