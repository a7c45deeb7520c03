package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	key         string
	contentType string
	data        []byte
	expiry      time.Duration
	err         error
}

func (f *fakeStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	f.key, f.contentType, f.data = key, contentType, data
	return f.err
}

func (f *fakeStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	f.key, f.expiry = key, expiry
	return "https://acct.r2.cloudflarestorage.com/bucket/" + key + "?X-Amz-Signature=abc", f.err
}

func (f *fakeStore) PublicURL(key string) string {
	return PublicURL("", "istmo-uploads", key)
}

var fixed = time.UnixMilli(1767225600000)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "uploads/1767225600000-michelin-pilot-sport.png", ObjectKey(fixed, "Michelin Pilot Sport.PNG"))
	assert.Equal(t, "uploads/1767225600000-ficha-tecnica.pdf", ObjectKey(fixed, "Ficha Técnica.pdf"))
	assert.Equal(t, "uploads/1767225600000-file.jpg", ObjectKey(fixed, "???.jpg"))
}

func TestDecodePayload(t *testing.T) {
	raw := []byte("tire image bytes")
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodePayload("data:image/png;base64,"+enc, 1024)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodePayload(enc, 1024)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = DecodePayload(enc, 4)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = DecodePayload("data:image/png;base64,@@@", 1024)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.istmoglobal.com/uploads/a.png", PublicURL("https://cdn.istmoglobal.com/", "b", "uploads/a.png"))
	assert.Equal(t, "https://b.r2.dev/uploads/a.png", PublicURL("", "b", "uploads/a.png"))
}

func newRouter(store ObjectStore, maxBytes int64) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), store, maxBytes)
	h.now = func() time.Time { return fixed }
	r := chi.NewRouter()
	r.Route("/api/admin/uploads", h.MountRoutes)
	return r
}

func TestUploadHandler(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store, 1<<20)
	body := `{"fileName":"banner.png","fileType":"image/png","fileData":"data:image/png;base64,` + base64.StdEncoding.EncodeToString([]byte("png")) + `"}`

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/uploads", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uploads/1767225600000-banner.png", store.key)
	assert.Equal(t, "image/png", store.contentType)
	assert.Contains(t, rr.Body.String(), `"publicUrl":"https://istmo-uploads.r2.dev/uploads/1767225600000-banner.png"`)
}

func TestUploadHandlerRejects(t *testing.T) {
	router := newRouter(&fakeStore{}, 2)
	big := `{"fileName":"a.png","fileType":"image/png","fileData":"` + base64.StdEncoding.EncodeToString([]byte("too big")) + `"}`

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/uploads", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/uploads", strings.NewReader(`{"fileName":"a.png"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	router = newRouter(&fakeStore{err: errors.New("r2 down")}, 1024)
	ok := `{"fileName":"a.png","fileType":"image/png","fileData":"cG5n"}`
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/uploads", strings.NewReader(ok)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestPresignHandler(t *testing.T) {
	store := &fakeStore{}
	router := newRouter(store, 1024)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/uploads/presign?fileName=logo.webp&fileType=image/webp", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, time.Hour, store.expiry)
	assert.Contains(t, rr.Body.String(), `"uploadUrl":"https://acct.r2.cloudflarestorage.com/bucket/uploads/1767225600000-logo.webp`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/uploads/presign?fileName=logo.webp", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
