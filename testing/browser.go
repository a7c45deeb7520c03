package testing

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	stdtesting "testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/istmoglobal/storefront/internal/shared"
)

// SessionCookie is the cookie name used by the test session stack.
const SessionCookie = "storefront_test"

// Stack bundles a Redis backed session manager for handler tests.
type Stack struct {
	Redis    *miniredis.Miniredis
	Client   *redis.Client
	Sessions *shared.SessionManager
	CSRF     *shared.CSRFManager
	Logger   *slog.Logger
}

// NewStack starts an in-memory Redis and the session managers on top of it.
func NewStack(t stdtesting.TB) *Stack {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Stack{
		Redis:    mr,
		Client:   client,
		Sessions: shared.NewSessionManager(client, SessionCookie, time.Hour, false),
		CSRF:     shared.NewCSRFManager("test-csrf-secret"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Wrap installs the session middleware followed by mws around h.
func (s *Stack) Wrap(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return shared.SessionMiddleware(s.Sessions, s.Logger)(h)
}

// Browser replays the session cookie across requests.
type Browser struct {
	t       stdtesting.TB
	handler http.Handler
	cookie  *http.Cookie
}

// NewBrowser returns a cookie keeping client for handler.
func NewBrowser(t stdtesting.TB, handler http.Handler) *Browser {
	return &Browser{t: t, handler: handler}
}

// Do serves req, attaching and then updating the session cookie.
func (b *Browser) Do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name != SessionCookie {
			continue
		}
		if c.MaxAge < 0 {
			b.cookie = nil
			continue
		}
		b.cookie = c
	}
	return rr
}

// Cookie returns the current session cookie, if any.
func (b *Browser) Cookie() *http.Cookie {
	return b.cookie
}
