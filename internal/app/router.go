package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/catalogimport"
	"github.com/istmoglobal/storefront/internal/checkout"
	"github.com/istmoglobal/storefront/internal/dashboard"
	"github.com/istmoglobal/storefront/internal/directory"
	"github.com/istmoglobal/storefront/internal/observability"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/prospects"
	"github.com/istmoglobal/storefront/internal/rbac"
	"github.com/istmoglobal/storefront/internal/settings"
	"github.com/istmoglobal/storefront/internal/shared"
	"github.com/istmoglobal/storefront/internal/storage"
	"github.com/istmoglobal/storefront/internal/users"
	"github.com/istmoglobal/storefront/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	ImportHandler    *catalogimport.Handler
	CartHandler      *cart.Handler
	CheckoutHandler  *checkout.Handler
	OrdersHandler    *orders.Handler
	ProspectsHandler *prospects.Handler
	UsersHandler     *users.Handler
	DirectoryHandler *directory.Handler
	SettingsHandler  *settings.Handler
	DashboardHandler *dashboard.Handler
	UploadHandler    *storage.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with storefront defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", params.AuthHandler.MountSessionRoutes)
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/catalog", params.CatalogHandler.MountPublic)
		r.Route("/cart", params.CartHandler.MountRoutes)
		r.Route("/checkout", params.CheckoutHandler.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountPublic)
		r.Route("/contact", params.ProspectsHandler.MountPublic)
		r.Route("/account/orders", params.OrdersHandler.MountAccount)

		r.Route("/admin", func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAdmin())
			r.Group(func(r chi.Router) {
				params.CatalogHandler.MountAdmin(r)
				if params.ImportHandler != nil {
					params.ImportHandler.MountRoutes(r)
				}
			})
			r.Route("/orders", params.OrdersHandler.MountAdmin)
			r.Route("/prospects", params.ProspectsHandler.MountAdmin)
			r.Route("/users", params.UsersHandler.MountRoutes)
			r.Route("/contacts", params.DirectoryHandler.MountRoutes)
			r.Route("/settings", params.SettingsHandler.MountAdmin)
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
			if params.UploadHandler != nil {
				r.Route("/uploads", params.UploadHandler.MountRoutes)
			}
		})
	})

	return r
}
