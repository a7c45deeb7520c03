package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/observability"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// ErrEmptyCart rejects checkouts without lines.
var ErrEmptyCart = fmt.Errorf("checkout: cart is empty: %w", httpx.ErrValidation)

// OrderCreator persists orders.
type OrderCreator interface {
	Create(ctx context.Context, in orders.NewOrder) (orders.Order, error)
}

// Service places orders from carts.
type Service struct {
	orders  OrderCreator
	metrics *observability.Metrics
}

// NewService builds a Service. metrics may be nil.
func NewService(creator OrderCreator, metrics *observability.Metrics) *Service {
	return &Service{orders: creator, metrics: metrics}
}

// PlaceOrder stores a Pending order holding a snapshot of c. The caller
// clears the cart once this returns without error.
func (s *Service) PlaceOrder(ctx context.Context, who auth.Identity, c cart.Cart) (orders.Order, error) {
	if c.Empty() {
		return orders.Order{}, ErrEmptyCart
	}
	items, err := json.Marshal(c.Items)
	if err != nil {
		return orders.Order{}, fmt.Errorf("checkout: encode items: %w", err)
	}
	total, _ := c.Total().Round(2).Float64()
	o, err := s.orders.Create(ctx, orders.NewOrder{
		UserID:   who.UserID,
		UserName: who.Name,
		Items:    string(items),
		Total:    total,
	})
	if err != nil {
		return orders.Order{}, fmt.Errorf("checkout: place order: %w", err)
	}
	s.metrics.OrderPlaced()
	return o, nil
}
