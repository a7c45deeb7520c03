// Package users is the back office view of customer and staff accounts.
package users

import (
	"fmt"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// User is an account as managed from the back office.
type User = auth.User

var (
	// ErrNotFound indicates an unknown account.
	ErrNotFound = auth.ErrNotFound
	// ErrEmailTaken is returned when an update collides with another account.
	ErrEmailTaken = auth.ErrEmailTaken
	// ErrSelfDelete blocks administrators from deleting their own account.
	ErrSelfDelete = fmt.Errorf("users: cannot delete the signed in account: %w", httpx.ErrConflict)
	// ErrInvalidRole rejects unknown roles.
	ErrInvalidRole = fmt.Errorf("users: invalid role: %w", httpx.ErrValidation)
)

// UpdateInput holds the editable fields of an account.
type UpdateInput struct {
	Email   string       `json:"email" validate:"required,email,max=254"`
	Role    auth.Role    `json:"role" validate:"required"`
	Name    string       `json:"name" validate:"required,max=120"`
	Company string       `json:"company" validate:"max=160"`
	Details auth.Details `json:"details"`
}

// CreateInput is an account created by an administrator.
type CreateInput struct {
	UpdateInput
	Password string `json:"password" validate:"required,min=8,max=72"`
}
