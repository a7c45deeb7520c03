package prospects

import (
	"context"
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

type memoryRepo struct {
	items []Prospect
}

func (m *memoryRepo) Create(ctx context.Context, p Prospect) error {
	m.items = append([]Prospect{p}, m.items...)
	return nil
}

func (m *memoryRepo) List(ctx context.Context) ([]Prospect, error) {
	return append([]Prospect(nil), m.items...), nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (Prospect, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return Prospect{}, ErrNotFound
}

func (m *memoryRepo) Update(ctx context.Context, p Prospect) error {
	for i := range m.items {
		if m.items[i].ID == p.ID {
			m.items[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(repo *memoryRepo) *Service {
	svc := NewService(repo)
	n := 0
	svc.newID = func() string { n++; return "pr" + string(rune('0'+n)) }
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitCreatesNew(t *testing.T) {
	svc := newTestService(&memoryRepo{})
	p, err := svc.Submit(context.Background(), ContactInput{Name: " Luis ", Email: "luis@flota.pa", Message: "Cotización 40 llantas", ProductOfInterest: "  "})
	require.NoError(t, err)
	assert.Equal(t, StatusNew, p.Status)
	assert.Equal(t, "Luis", p.Name)
	assert.Nil(t, p.ProductOfInterest)
}

func TestUpdateStatusValidated(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	p, err := svc.Submit(context.Background(), ContactInput{Name: "A", Email: "a@b.co", Message: "m"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{ContactInput: ContactInput{Name: "A", Email: "a@b.co", Message: "m", ProductOfInterest: "AT 265/70R17"}, Status: StatusInNegotiation})
	require.NoError(t, err)
	assert.Equal(t, StatusInNegotiation, updated.Status)
	require.NotNil(t, updated.ProductOfInterest)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(context.Background(), p.ID, UpdateInput{ContactInput: ContactInput{Name: "A"}, Status: "Won"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Update(context.Background(), "nope", UpdateInput{Status: StatusClosed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandlerRoutes(t *testing.T) {
	repo := &memoryRepo{}
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newTestService(repo))
	r := chi.NewRouter()
	r.Route("/api/contact", h.MountPublic)
	r.Route("/api/admin/prospects", h.MountAdmin)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Eva","email":"not-an-email","message":"hi"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Eva","email":"eva@test.pa","message":"hi","country":"Panamá"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"New"`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/prospects/pr1", strings.NewReader(`{"name":"Eva","email":"eva@test.pa","message":"hi","status":"Contacted"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/prospects", nil))
	assert.Contains(t, rr.Body.String(), `"status":"Contacted"`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/prospects/pr1", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/prospects/pr1", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
