package checkout

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/pricing"
	"github.com/istmoglobal/storefront/internal/shared"
)

// Handler exposes the checkout endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	prices  pricing.Source
	phone   string
}

// NewHandler builds a Handler. phone is the WhatsApp number receiving
// guest orders and may be empty.
func NewHandler(logger *slog.Logger, service *Service, prices pricing.Source, phone string) *Handler {
	return &Handler{logger: logger, service: service, prices: prices, phone: phone}
}

// MountRoutes registers the checkout routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/whatsapp", h.whatsapp)
	r.With(auth.RequireUser).Post("/orders", h.placeOrder)
}

type whatsappResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type orderResponse struct {
	Order   orders.Order `json:"order"`
	Message string       `json:"message"`
}

func (h *Handler) loadCart(w http.ResponseWriter, r *http.Request) (*shared.Session, cart.Cart, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return nil, cart.Cart{}, false
	}
	c, err := cart.Load(sess)
	if err != nil {
		h.logger.Warn("discard cart snapshot", slog.Any("error", err))
		c = cart.Cart{}
	}
	return sess, c, true
}

func (h *Handler) whatsapp(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	if c.Empty() {
		httpx.RespondError(w, ErrEmptyCart)
		return
	}
	msg := GuestMessage(c, h.prices.Presenter(r))
	httpx.JSON(w, http.StatusOK, whatsappResponse{Message: msg, URL: WhatsAppURL(h.phone, msg)})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())
	sess, c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), who, c)
	if err != nil {
		if !errors.Is(err, ErrEmptyCart) {
			h.logger.Error("place order", slog.Any("error", err), slog.String("user", who.UserID))
		}
		httpx.RespondError(w, err)
		return
	}

	c.Clear()
	c.Open = false
	if err := cart.Save(sess, c); err != nil {
		h.logger.Error("clear cart after order", slog.Any("error", err), slog.String("order", o.ID))
	}
	h.logger.Info("order placed", slog.String("order", o.ID), slog.String("user", who.UserID))
	httpx.JSON(w, http.StatusCreated, orderResponse{Order: o, Message: i18n.T(i18n.FromRequest(r), i18n.OrderPlaced)})
}
