package settings

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/pricing"
)

// RepositoryPort is the persistence surface used by the service.
type RepositoryPort interface {
	Get(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, s Settings) error
}

// Service reads and writes the site settings through the Redis cache.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Get returns the current settings. Cache failures fall through to the
// store; concurrent misses share one store read.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("settings cache read", slog.Any("error", err))
	}
	if ok {
		return cached, nil
	}
	res, err, _ := s.group.Do(CacheKey, func() (any, error) {
		current, found, err := s.repo.Get(ctx)
		if err != nil {
			return Settings{}, err
		}
		if !found {
			current = Default()
		}
		if err := s.cache.Set(ctx, current); err != nil {
			s.logger.Warn("settings cache write", slog.Any("error", err))
		}
		return current, nil
	})
	if err != nil {
		return Settings{}, err
	}
	return res.(Settings), nil
}

// Update writes the settings and refreshes the cache.
func (s *Service) Update(ctx context.Context, next Settings) (Settings, error) {
	next.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, next); err != nil {
		return Settings{}, err
	}
	if err := s.cache.Set(ctx, next); err != nil {
		s.logger.Warn("settings cache refresh", slog.Any("error", err))
		_ = s.cache.Invalidate(ctx)
	}
	return next, nil
}

// Toggle flips price visibility.
func (s *Service) Toggle(ctx context.Context) (Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	current.ShowPrices = !current.ShowPrices
	return s.Update(ctx, current)
}

// Presenter implements pricing.Source. When the settings cannot be read the
// defaults apply.
func (s *Service) Presenter(r *http.Request) pricing.Presenter {
	current, err := s.Get(r.Context())
	if err != nil {
		s.logger.Error("load settings", slog.Any("error", err))
		current = Default()
	}
	return pricing.Presenter{ShowPrices: current.ShowPrices, Lang: i18n.FromRequest(r)}
}
