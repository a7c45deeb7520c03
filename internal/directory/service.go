package directory

import (
	"context"

	"github.com/istmoglobal/storefront/internal/prospects"
	"github.com/istmoglobal/storefront/internal/users"
)

// UserGetter loads accounts.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (users.User, error)
}

// ProspectGetter loads prospects.
type ProspectGetter interface {
	Get(ctx context.Context, id string) (prospects.Prospect, error)
}

// Service resolves contacts by kind and id.
type Service struct {
	users     UserGetter
	prospects ProspectGetter
}

// NewService builds a Service.
func NewService(u UserGetter, p ProspectGetter) *Service {
	return &Service{users: u, prospects: p}
}

// Lookup loads the contact identified by kind and id.
func (s *Service) Lookup(ctx context.Context, kind Kind, id string) (Contact, error) {
	switch kind {
	case KindUser:
		u, err := s.users.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		return UserContact{User: u}, nil
	case KindProspect:
		p, err := s.prospects.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return ProspectContact{Prospect: p}, nil
	}
	return nil, ErrUnknownKind
}
