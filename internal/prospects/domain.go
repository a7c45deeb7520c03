// Package prospects captures sales leads from the public contact form.
package prospects

import (
	"fmt"
	"time"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Status tracks a lead through the sales pipeline.
type Status string

const (
	StatusNew           Status = "New"
	StatusContacted     Status = "Contacted"
	StatusInNegotiation Status = "In Negotiation"
	StatusClosed        Status = "Closed"
	StatusDiscarded     Status = "Discarded"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInNegotiation, StatusClosed, StatusDiscarded:
		return true
	}
	return false
}

var (
	// ErrNotFound indicates an unknown prospect.
	ErrNotFound = fmt.Errorf("prospects: %w", httpx.ErrNotFound)
	// ErrInvalidStatus rejects unknown pipeline statuses.
	ErrInvalidStatus = fmt.Errorf("prospects: invalid status: %w", httpx.ErrValidation)
)

// Prospect is a sales lead.
type Prospect struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Company           string    `json:"company"`
	Country           string    `json:"country"`
	Email             string    `json:"email"`
	ProductOfInterest *string   `json:"productOfInterest,omitempty"`
	Message           string    `json:"message"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ContactInput is the public contact form.
type ContactInput struct {
	Name              string `json:"name" validate:"required,max=120"`
	Company           string `json:"company" validate:"max=160"`
	Country           string `json:"country" validate:"max=80"`
	Email             string `json:"email" validate:"required,email,max=254"`
	ProductOfInterest string `json:"productOfInterest" validate:"max=200"`
	Message           string `json:"message" validate:"required,max=4000"`
}

// UpdateInput is the admin edit payload.
type UpdateInput struct {
	ContactInput
	Status Status `json:"status" validate:"required"`
}
