package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Enqueuer hands an uploaded document to the background worker.
type Enqueuer interface {
	EnqueueCatalogImport(ctx context.Context, jobID string, csv []byte) error
}

// Handler accepts import uploads and reports job progress.
type Handler struct {
	logger   *slog.Logger
	queue    Enqueuer
	progress ProgressStore
	maxBytes int64
}

// NewHandler constructs the import handler. maxBytes bounds uploaded files.
func NewHandler(logger *slog.Logger, queue Enqueuer, progress ProgressStore, maxBytes int64) *Handler {
	return &Handler{logger: logger, queue: queue, progress: progress, maxBytes: maxBytes}
}

// MountRoutes registers the admin import routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products/import/template", h.template)
	r.Post("/products/import", h.upload)
	r.Get("/products/import/{jobID}", h.status)
}

type uploadResponse struct {
	JobID string `json:"jobId"`
}

func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	body := Template()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+TemplateFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	data, err := h.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "import file exceeds the size limit")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "import file is empty")
		return
	}

	jobID := uuid.NewString()
	queued := Progress{JobID: jobID, Status: StatusQueued, UpdatedAt: time.Now().UTC()}
	if err := h.progress.Save(r.Context(), queued); err != nil {
		h.logger.Error("catalog import save progress", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if err := h.queue.EnqueueCatalogImport(r.Context(), jobID, data); err != nil {
		h.logger.Error("catalog import enqueue", slog.Any("error", err))
		failed := queued
		failed.Status = StatusFailed
		failed.Error = "could not queue import"
		_ = h.progress.Save(r.Context(), failed)
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("catalog import queued", slog.String("job", jobID), slog.Int("bytes", len(data)))
	httpx.JSON(w, http.StatusAccepted, uploadResponse{JobID: jobID})
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	r.Body = body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			return nil, wrapUploadErr(err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: file field required", httpx.ErrValidation)
		}
		defer file.Close()
		return readLimited(file, h.maxBytes)
	}
	return readLimited(body, h.maxBytes)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, wrapUploadErr(err)
	}
	if int64(len(data)) > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	return data, nil
}

func wrapUploadErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	p, err := h.progress.Load(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) {
			h.logger.Error("catalog import status", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
