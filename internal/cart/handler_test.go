package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/pricing"
	"github.com/istmoglobal/storefront/internal/shared"
	storefronttest "github.com/istmoglobal/storefront/testing"
)

type lookup map[string]catalog.Product

func (l lookup) ActiveProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := l[id]
	if !ok || p.Status != catalog.StatusActive {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

var products = lookup{
	"p1": {ID: "p1", Status: catalog.StatusActive, Size: "205/55R16", Price: 89.9,
		Variants: []catalog.Variant{{ID: "v1", Size: "205/55R16", Price: 89.9}, {ID: "v2", Size: "225/45R17", Price: 120}}},
	"off": {ID: "off", Status: catalog.StatusInactive, Size: "175/70R13", Price: 40},
}

// withRole is a test middleware that signs the request in with role.
func withRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role != "" {
				r = r.WithContext(auth.ContextWithIdentity(r.Context(), auth.Identity{UserID: "u1", Role: role}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newCartBrowser(t *testing.T, role auth.Role, show bool) (*storefronttest.Browser, *storefronttest.Stack) {
	t.Helper()
	stack := storefronttest.NewStack(t)
	h := cart.NewHandler(stack.Logger, products, pricing.Static{ShowPrices: show, Lang: i18n.Spanish})
	r := chi.NewRouter()
	r.Route("/api/cart", h.MountRoutes)
	return storefronttest.NewBrowser(t, stack.Wrap(r, withRole(role))), stack
}

func send(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) cart.View {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var v cart.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestCartLifecycle(t *testing.T) {
	b, _ := newCartBrowser(t, "", true)

	v := decodeView(t, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)))
	require.Len(t, v.Items, 1)
	assert.True(t, v.Open)
	assert.Equal(t, cart.RetailLineLimit, v.Limit)

	v = decodeView(t, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1","variantId":"v2","quantity":2}`)))
	require.Len(t, v.Items, 2)
	require.NotNil(t, v.Total)
	assert.InDelta(t, 329.9, *v.Total, 0.001)

	v = decodeView(t, b.Do(send(http.MethodPatch, "/api/cart/items/p1-v2", `{"quantity":0}`)))
	require.Len(t, v.Items, 1)

	v = decodeView(t, b.Do(send(http.MethodPost, "/api/cart/drawer", `{"open":false}`)))
	assert.False(t, v.Open)

	v = decodeView(t, b.Do(send(http.MethodDelete, "/api/cart/items/p1-default", ``)))
	assert.Empty(t, v.Items)

	v = decodeView(t, b.Do(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))
	assert.Empty(t, v.Items)
}

func TestCartHidesPrices(t *testing.T) {
	b, _ := newCartBrowser(t, "", false)
	rr := b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1"}`))
	v := decodeView(t, rr)
	require.Len(t, v.Items, 1)
	assert.Nil(t, v.Items[0].Price)
	assert.Nil(t, v.Total)
	assert.Equal(t, "Consultar", v.TotalLabel)
	assert.NotContains(t, rr.Body.String(), "89.9")
}

func TestCartRetailLimit(t *testing.T) {
	b, _ := newCartBrowser(t, auth.RoleB2C, true)
	decodeView(t, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1","quantity":8}`)))

	rr := b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1","quantity":1}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Límite de 8 unidades")

	rr = b.Do(send(http.MethodPatch, "/api/cart/items/p1-default", `{"quantity":9}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCartWholesaleUnlimited(t *testing.T) {
	b, _ := newCartBrowser(t, auth.RoleB2B, true)
	v := decodeView(t, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1","quantity":40}`)))
	assert.Equal(t, 40, v.Units)
	assert.Zero(t, v.Limit)
}

func TestCartRejectsUnknownProducts(t *testing.T) {
	b, _ := newCartBrowser(t, "", true)
	assert.Equal(t, http.StatusNotFound, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"off"}`)).Code)
	assert.Equal(t, http.StatusNotFound, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"zzz"}`)).Code)
	assert.Equal(t, http.StatusBadRequest, b.Do(send(http.MethodPost, "/api/cart/items", `{"productId":"p1","variantId":"v9"}`)).Code)
	assert.Equal(t, http.StatusNotFound, b.Do(send(http.MethodPatch, "/api/cart/items/zzz-default", `{"quantity":2}`)).Code)
}

func TestCartDiscardsMalformedSnapshot(t *testing.T) {
	stack := storefronttest.NewStack(t)
	h := cart.NewHandler(stack.Logger, products, pricing.Static{ShowPrices: true})
	r := chi.NewRouter()
	r.Route("/api/cart", h.MountRoutes)
	corrupt := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shared.SessionFromContext(r.Context()).Set(cart.SessionKey, `{"version":`)
			next.ServeHTTP(w, r)
		})
	}
	b := storefronttest.NewBrowser(t, stack.Wrap(r, corrupt))
	v := decodeView(t, b.Do(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))
	assert.Empty(t, v.Items)
}
