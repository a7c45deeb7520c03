package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/shared"
)

type failingRepo struct{}

func (failingRepo) FindByEmail(context.Context, string) (User, error) { return User{}, ErrNotFound }
func (failingRepo) Create(context.Context, User) error             { return nil }

func TestBypassDisabled(t *testing.T) {
	svc := NewService(failingRepo{}, Config{BypassEnabled: false, BypassEmail: "admin@istmoglobal.com", BypassPassword: "admin"})
	_, err := svc.Login(context.Background(), "admin@istmoglobal.com", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBypassWrongPasswordFallsThrough(t *testing.T) {
	svc := NewService(failingRepo{}, Config{BypassEnabled: true, BypassEmail: "admin@istmoglobal.com", BypassPassword: "admin"})
	_, err := svc.Login(context.Background(), "admin@istmoglobal.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsHashed(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	assert.True(t, IsHashed(hash))
	assert.True(t, IsHashed("$2y$10$abc"))
	assert.False(t, IsHashed("plaintext"))
}

func TestIdentitySnapshot(t *testing.T) {
	sess := &shared.Session{ID: "s1"}
	u := User{ID: "u1", Email: "a@b.c", Role: RoleB2C, Name: "A", Details: Details{Phone: "+507 6000-0000"}}
	require.NoError(t, SignIn(sess, u))

	id, ok := IdentityFromSession(sess)
	require.True(t, ok)
	assert.Equal(t, u.Identity(), id)
	assert.False(t, id.IsAdmin())

	sess.SetUser("someone-else")
	_, ok = IdentityFromSession(sess)
	assert.False(t, ok)
}
