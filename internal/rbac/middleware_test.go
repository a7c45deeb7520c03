package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/istmoglobal/storefront/internal/auth"
)

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	guard := Middleware{}.RequireRole(auth.RoleAdmin, "B2B ")(ok)

	tests := []struct {
		name     string
		identity *auth.Identity
		want     int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "retail", identity: &auth.Identity{UserID: "u1", Role: auth.RoleB2C}, want: http.StatusForbidden},
		{name: "wholesale", identity: &auth.Identity{UserID: "u2", Role: auth.RoleB2B}, want: http.StatusTeapot},
		{name: "admin", identity: &auth.Identity{UserID: "admin", Role: auth.RoleAdmin}, want: http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tc.identity != nil {
				req = req.WithContext(auth.ContextWithIdentity(req.Context(), *tc.identity))
			}
			rr := httptest.NewRecorder()
			guard.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestRequireAdminRejectsCustomers(t *testing.T) {
	guard := Middleware{}.RequireAdmin()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/brands/b1", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{UserID: "u1", Role: auth.RoleB2B}))
	rr := httptest.NewRecorder()
	guard.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
