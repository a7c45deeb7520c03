package cart

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/pricing"
	"github.com/istmoglobal/storefront/internal/shared"
)

// ProductLookup resolves products offered in the storefront.
type ProductLookup interface {
	ActiveProduct(ctx context.Context, id string) (catalog.Product, error)
}

// Handler exposes the session cart.
type Handler struct {
	logger    *slog.Logger
	products  ProductLookup
	prices    pricing.Source
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, products ProductLookup, prices pricing.Source) *Handler {
	return &Handler{logger: logger, products: products, prices: prices, validator: validator.New()}
}

// MountRoutes registers the cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Delete("/", h.clear)
	r.Post("/items", h.addItem)
	r.Patch("/items/{cartId}", h.updateItem)
	r.Delete("/items/{cartId}", h.removeItem)
	r.Post("/drawer", h.setDrawer)
}

type addItemForm struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type updateItemForm struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type drawerForm struct {
	Open bool `json:"open"`
}

func role(r *http.Request) auth.Role {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.Role
	}
	return ""
}

// load returns the session cart. Undecodable snapshots are dropped.
func (h *Handler) load(r *http.Request) (*shared.Session, Cart, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil, Cart{}, false
	}
	c, err := Load(sess)
	if err != nil {
		h.logger.Warn("discard cart snapshot", slog.Any("error", err))
		c = Cart{}
	}
	return sess, c, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, sess *shared.Session, c Cart) {
	if err := Save(sess, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, NewView(c, h.prices.Presenter(r), QuantityLimit(role(r))))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(c, h.prices.Presenter(r), QuantityLimit(role(r))))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var form addItemForm
	if !h.decode(w, r, &form) {
		return
	}
	if form.Quantity == 0 {
		form.Quantity = 1
	}
	sess, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	product, err := h.products.ActiveProduct(r.Context(), form.ProductID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			h.logger.Error("cart product lookup", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	next := form.Quantity
	if existing, found := c.Find(LineID(product.ID, form.VariantID)); found {
		next += existing.Quantity
	}
	if !WithinLimit(role(r), next) {
		h.limitExceeded(w, r)
		return
	}
	if _, err := c.Add(product, form.VariantID, form.Quantity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, sess, c)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var form updateItemForm
	if !h.decode(w, r, &form) {
		return
	}
	sess, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	if !WithinLimit(role(r), *form.Quantity) {
		h.limitExceeded(w, r)
		return
	}
	if err := c.UpdateQuantity(chi.URLParam(r, "cartId"), *form.Quantity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, http.StatusOK, sess, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	c.Remove(chi.URLParam(r, "cartId"))
	h.respond(w, r, http.StatusOK, sess, c)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	c.Clear()
	h.respond(w, r, http.StatusOK, sess, c)
}

func (h *Handler) setDrawer(w http.ResponseWriter, r *http.Request) {
	var form drawerForm
	if !h.decode(w, r, &form) {
		return
	}
	sess, c, ok := h.load(r)
	if !ok {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	c.Open = form.Open
	h.respond(w, r, http.StatusOK, sess, c)
}

func (h *Handler) limitExceeded(w http.ResponseWriter, r *http.Request) {
	httpx.Problem(w, http.StatusBadRequest, "Quantity Limit", i18n.T(i18n.FromRequest(r), i18n.QuantityLimit))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.ValidationProblem(w, err)
		return false
	}
	return true
}
