package users

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

	"github.com/istmoglobal/storefront/internal/auth"
)

type memoryRepo struct {
	users []User
}

func (m *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	return append([]User(nil), m.users...), nil
}

func (m *memoryRepo) GetUser(ctx context.Context, id string) (User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memoryRepo) CreateUser(ctx context.Context, u User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	m.users = append([]User{u}, m.users...)
	return nil
}

func (m *memoryRepo) UpdateUser(ctx context.Context, u User) error {
	for i := range m.users {
		if m.users[i].ID != u.ID && strings.EqualFold(m.users[i].Email, u.Email) {
			return ErrEmailTaken
		}
	}
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = u
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryRepo) DeleteUser(ctx context.Context, id string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func seeded() *memoryRepo {
	return &memoryRepo{users: []User{
		{ID: "u2", Email: "b2b@test.pa", Role: auth.RoleB2B, Name: "Flota", PasswordHash: "$2a$10$x", CreatedAt: time.Now()},
		{ID: "u1", Email: "b2c@test.pa", Role: auth.RoleB2C, Name: "Ana", PasswordHash: "$2a$10$y"},
	}}
}

func TestUpdateUserKeepsPassword(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)
	u, err := svc.UpdateUser(context.Background(), "u1", UpdateInput{
		Email: "ana@test.pa", Role: auth.RoleB2B, Name: "Ana", Company: "Taller Ana",
		Details: auth.Details{Phone: "+507 6123-4567", City: "David"},
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleB2B, u.Role)
	assert.Equal(t, "$2a$10$y", repo.users[1].PasswordHash)
	assert.Equal(t, "David", repo.users[1].Details.City)

	_, err = svc.UpdateUser(context.Background(), "u1", UpdateInput{Email: "b2b@test.pa", Role: auth.RoleB2C, Name: "Ana"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateUser(context.Background(), "u1", UpdateInput{Email: "x@test.pa", Role: "root", Name: "Ana"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)
	u, err := svc.CreateUser(context.Background(), CreateInput{
		UpdateInput: UpdateInput{Email: "staff@test.pa", Role: auth.RoleAdmin, Name: "Staff"},
		Password:    "longenough",
	})
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(u.PasswordHash))
	assert.Len(t, repo.users, 3)
}

func TestDeleteUser(t *testing.T) {
	svc := NewService(seeded())
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "u1", "u1"), ErrSelfDelete)
	assert.NoError(t, svc.DeleteUser(context.Background(), "admin", "u1"))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "admin", "u1"), ErrNotFound)
}

func TestHandlerHidesPasswordHash(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(seeded()))
	r := chi.NewRouter()
	r.Route("/api/admin/users", h.MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"b2b@test.pa"`)
	assert.NotContains(t, rr.Body.String(), "$2a$")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/users/u1", strings.NewReader(`{"email":"bad","role":"b2c","name":"Ana"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/u2", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{UserID: "u2", Role: auth.RoleAdmin}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
