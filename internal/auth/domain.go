package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/shared"
)

// Role classifies an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleB2C   Role = "b2c"
	RoleB2B   Role = "b2b"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleB2C, RoleB2B:
		return true
	}
	return false
}

var (
	// ErrInvalidCredentials covers every login failure so callers cannot
	// tell unknown emails from wrong passwords.
	ErrInvalidCredentials = fmt.Errorf("auth: invalid credentials: %w", httpx.ErrUnauthorized)
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = fmt.Errorf("auth: email already registered: %w", httpx.ErrDuplicate)
	// ErrNotFound indicates an unknown user.
	ErrNotFound = fmt.Errorf("auth: user %w", httpx.ErrNotFound)
)

// Details holds the optional contact data of an account.
type Details struct {
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	TaxID   string `json:"taxId,omitempty"`
}

// User represents an account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Company      string    `json:"company,omitempty"`
	PasswordHash string    `json:"-"`
	Details      Details   `json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the snapshot of the signed in user kept in the session.
type Identity struct {
	UserID  string  `json:"id"`
	Email   string  `json:"email"`
	Role    Role    `json:"role"`
	Name    string  `json:"name"`
	Company string  `json:"company,omitempty"`
	Details Details `json:"details"`
}

// Identity snapshots u.
func (u User) Identity() Identity {
	return Identity{
		UserID:  u.ID,
		Email:   u.Email,
		Role:    u.Role,
		Name:    u.Name,
		Company: u.Company,
		Details: u.Details,
	}
}

// IsAdmin reports whether the identity may use the back office.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IdentitySessionKey stores the identity snapshot in the session.
const IdentitySessionKey = "identity"

// SignIn binds the user to the session under a fresh session id.
func SignIn(sess *shared.Session, u User) error {
	sess.Renew()
	sess.SetUser(u.ID)
	return sess.SetJSON(IdentitySessionKey, u.Identity())
}

// IdentityFromSession decodes the identity snapshot. It reports false for
// anonymous sessions and for snapshots that do not match the session user.
func IdentityFromSession(sess *shared.Session) (Identity, bool) {
	if sess == nil || sess.User() == "" {
		return Identity{}, false
	}
	var id Identity
	ok, err := sess.GetJSON(IdentitySessionKey, &id)
	if err != nil || !ok || id.UserID != sess.User() {
		return Identity{}, false
	}
	return id, true
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity resolved for the request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
