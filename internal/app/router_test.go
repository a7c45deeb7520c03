package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/checkout"
	"github.com/istmoglobal/storefront/internal/dashboard"
	"github.com/istmoglobal/storefront/internal/directory"
	"github.com/istmoglobal/storefront/internal/observability"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/prospects"
	"github.com/istmoglobal/storefront/internal/rbac"
	"github.com/istmoglobal/storefront/internal/settings"
	"github.com/istmoglobal/storefront/internal/users"
	storefronttest "github.com/istmoglobal/storefront/testing"
)

type memoryUsers struct {
	users map[string]auth.User
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (auth.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) Create(_ context.Context, u auth.User) error {
	m.users[strings.ToLower(u.Email)] = u
	return nil
}

type fixedSettings struct{}

func (fixedSettings) Get(context.Context) (settings.Settings, bool, error) {
	return settings.Settings{}, false, nil
}

func (fixedSettings) Save(context.Context, settings.Settings) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithConfig(t, &Config{AppEnv: "test", RateLimitPerMinute: 1000})
}

func newTestRouterWithConfig(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	stack := storefronttest.NewStack(t)
	metrics := observability.NewMetrics()
	authSvc := auth.NewService(&memoryUsers{users: map[string]auth.User{}}, auth.Config{
		BypassEnabled:  true,
		BypassEmail:    "admin@istmoglobal.com",
		BypassPassword: "admin",
	})
	settingsSvc := settings.NewService(fixedSettings{}, nil, stack.Logger)
	return NewRouter(RouterParams{
		Logger:           stack.Logger,
		Config:           cfg,
		SessionManager:   stack.Sessions,
		CSRFManager:      stack.CSRF,
		RBACMiddleware:   rbac.Middleware{Logger: stack.Logger},
		Metrics:          metrics,
		AuthHandler:      auth.NewHandler(stack.Logger, authSvc, stack.Sessions, stack.CSRF, metrics),
		CatalogHandler:   catalog.NewHandler(stack.Logger, nil, settingsSvc),
		CartHandler:      cart.NewHandler(stack.Logger, nil, settingsSvc),
		CheckoutHandler:  checkout.NewHandler(stack.Logger, nil, settingsSvc, ""),
		OrdersHandler:    orders.NewHandler(stack.Logger, nil),
		ProspectsHandler: prospects.NewHandler(stack.Logger, nil),
		UsersHandler:     users.NewHandler(stack.Logger, nil),
		DirectoryHandler: directory.NewHandler(stack.Logger, nil),
		SettingsHandler:  settings.NewHandler(stack.Logger, settingsSvc),
		DashboardHandler: dashboard.NewHandler(stack.Logger, nil),
	})
}

func csrfToken(t *testing.T, b *storefronttest.Browser) string {
	t.Helper()
	rr := b.Do(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.CSRFToken)
	return body.CSRFToken
}

func postJSON(path, token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	return req
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "storefront_http_requests_total")
}

func TestUnsafeRequestWithoutCSRFTokenIsRejected(t *testing.T) {
	b := storefronttest.NewBrowser(t, newTestRouter(t))
	csrfToken(t, b)

	rr := b.Do(postJSON("/api/contact", "", `{"name":"Ana"}`))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = b.Do(postJSON("/api/contact", "forged", `{"name":"Ana"}`))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPublicSettingsReadable(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"showPrices":true`)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("customer", func(t *testing.T) {
		b := storefronttest.NewBrowser(t, newTestRouter(t))
		token := csrfToken(t, b)
		rr := b.Do(postJSON("/api/auth/register", token,
			`{"email":"ana@example.com","password":"secret123","name":"Ana","role":"b2c"}`))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = b.Do(httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin", func(t *testing.T) {
		b := storefronttest.NewBrowser(t, newTestRouter(t))
		token := csrfToken(t, b)
		rr := b.Do(postJSON("/api/auth/login", token, `{"email":"admin@istmoglobal.com","password":"admin"}`))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = b.Do(httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"showPrices":true`)
	})
}

func TestRouterWithoutConfigUsesDefaults(t *testing.T) {
	var router http.Handler
	require.NotPanics(t, func() { router = newTestRouterWithConfig(t, nil) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLoginIssuesFreshCSRFToken(t *testing.T) {
	b := storefronttest.NewBrowser(t, newTestRouter(t))
	anonymous := csrfToken(t, b)

	rr := b.Do(postJSON("/api/auth/login", anonymous, `{"email":"admin@istmoglobal.com","password":"admin"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.CSRFToken)
	assert.NotEqual(t, anonymous, body.CSRFToken)
	assert.Equal(t, body.CSRFToken, csrfToken(t, b))

	rr = b.Do(postJSON("/api/admin/settings/toggle-prices", anonymous, ""))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = b.Do(postJSON("/api/auth/logout", body.CSRFToken, ""))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
