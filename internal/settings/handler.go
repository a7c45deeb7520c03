package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Handler exposes the settings endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountPublic registers GET / for storefront clients.
func (h *Handler) MountPublic(r chi.Router) {
	r.Get("/", h.show)
}

// MountAdmin registers the back office routes.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/", h.show)
	r.Put("/", h.update)
	r.Post("/toggle-prices", h.toggle)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("get settings", slog.Any("error", err))
		current = Default()
	}
	httpx.JSON(w, http.StatusOK, current)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	saved, err := h.service.Update(r.Context(), Settings{ShowPrices: *in.ShowPrices})
	if err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("settings updated", slog.Bool("show_prices", saved.ShowPrices))
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	saved, err := h.service.Toggle(r.Context())
	if err != nil {
		h.logger.Error("toggle prices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
