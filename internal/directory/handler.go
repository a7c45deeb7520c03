package directory

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Handler serves contact detail cards.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers GET /{kind}/{id}.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{kind}/{id}", h.show)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Lookup(r.Context(), Kind(chi.URLParam(r, "kind")), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, ErrUnknownKind) {
			h.logger.Error("lookup contact", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Describe(c))
}
