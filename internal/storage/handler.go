package storage

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// PresignExpiry bounds presigned upload URLs.
const PresignExpiry = time.Hour

// Handler exposes the upload endpoints.
type Handler struct {
	logger    *slog.Logger
	store     ObjectStore
	maxBytes  int64
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler builds a Handler. maxBytes bounds decoded uploads.
func NewHandler(logger *slog.Logger, store ObjectStore, maxBytes int64) *Handler {
	return &Handler{logger: logger, store: store, maxBytes: maxBytes, validator: validator.New(), now: time.Now}
}

// MountRoutes registers POST / and GET /presign.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/presign", h.presign)
}

type uploadForm struct {
	FileName string `json:"fileName" validate:"required,max=200"`
	FileType string `json:"fileType" validate:"required,max=100"`
	FileData string `json:"fileData" validate:"required"`
}

type uploadResponse struct {
	PublicURL string `json:"publicUrl"`
}

type presignResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	var form uploadForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	data, err := DecodePayload(form.FileData, h.maxBytes)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	key := ObjectKey(h.now(), form.FileName)
	if err := h.store.Put(r.Context(), key, form.FileType, data); err != nil {
		h.logger.Error("upload object", slog.Any("error", err), slog.String("key", key))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("object uploaded", slog.String("key", key), slog.Int("bytes", len(data)))
	httpx.JSON(w, http.StatusOK, uploadResponse{PublicURL: h.store.PublicURL(key)})
}

func (h *Handler) presign(w http.ResponseWriter, r *http.Request) {
	fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
	fileType := strings.TrimSpace(r.URL.Query().Get("fileType"))
	if fileName == "" || fileType == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "fileName and fileType are required")
		return
	}
	key := ObjectKey(h.now(), fileName)
	uploadURL, err := h.store.PresignPut(r.Context(), key, PresignExpiry)
	if err != nil {
		h.logger.Error("presign upload", slog.Any("error", err), slog.String("key", key))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, presignResponse{UploadURL: uploadURL, PublicURL: h.store.PublicURL(key)})
}
