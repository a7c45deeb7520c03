// Package orders stores orders placed by signed in customers and lets the
// back office move them through fulfilment.
package orders

import (
	"fmt"
	"time"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every status in fulfilment order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound indicates an unknown order.
	ErrNotFound = fmt.Errorf("orders: %w", httpx.ErrNotFound)
	// ErrInvalidStatus rejects unknown target statuses.
	ErrInvalidStatus = fmt.Errorf("orders: invalid status: %w", httpx.ErrValidation)
	// ErrInvalidOrder rejects orders without an owner or items.
	ErrInvalidOrder = fmt.Errorf("orders: invalid order: %w", httpx.ErrValidation)
)

// Order is a submitted cart. Items holds the JSON snapshot of the cart
// lines at submission time.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Items     string    `json:"items"`
	Total     float64   `json:"total"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOrder is the input of Create.
type NewOrder struct {
	UserID   string
	UserName string
	Items    string
	Total    float64
}

// StatusInput is the admin payload for PATCH /{id}/status.
type StatusInput struct {
	Status Status `json:"status" validate:"required"`
}
