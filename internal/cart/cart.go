// Package cart keeps the shopping cart of a visitor in their session.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// DefaultVariant is the cart id suffix of lines without a selected variant.
const DefaultVariant = "default"

var (
	// ErrInvalidQuantity rejects quantities below one on add.
	ErrInvalidQuantity = fmt.Errorf("cart: quantity must be at least 1: %w", httpx.ErrValidation)
	// ErrItemNotFound is returned for an unknown cart id.
	ErrItemNotFound = fmt.Errorf("cart: item %w", httpx.ErrNotFound)
	// ErrUnknownVariant is returned when the selected variant does not
	// belong to the product.
	ErrUnknownVariant = fmt.Errorf("cart: unknown variant: %w", httpx.ErrValidation)
)

// Item is one cart line: a snapshot of the product plus quantity.
type Item struct {
	ProductID         string  `json:"id"`
	BrandID           string  `json:"brandId"`
	Name              string  `json:"name,omitempty"`
	CategoryID        string  `json:"categoryId"`
	Description       string  `json:"description"`
	Image             string  `json:"image"`
	Status            string  `json:"status"`
	Size              string  `json:"size"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	SelectedVariantID string  `json:"selectedVariantId,omitempty"`
	CartID            string  `json:"cartId"`
}

// LineID composes the cart id of a product and an optional variant.
func LineID(productID, variantID string) string {
	if variantID == "" {
		variantID = DefaultVariant
	}
	return productID + "-" + variantID
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per visitor cart state.
type Cart struct {
	Items []Item
	Open  bool
}

// Add puts quantity units of p in the cart. A selected variant overrides
// the product size and price. Lines with the same cart id are merged, and
// the drawer is marked open. It returns the resulting line.
func (c *Cart) Add(p catalog.Product, variantID string, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	item := Item{
		ProductID:   p.ID,
		BrandID:     p.BrandID,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Image:       p.Image,
		Status:      string(p.Status),
		Size:        p.Size,
		Price:       p.Price,
		Quantity:    quantity,
	}
	if variantID != "" {
		v, ok := p.Variant(variantID)
		if !ok {
			return Item{}, ErrUnknownVariant
		}
		item.Size = v.Size
		item.Price = v.Price
		item.SelectedVariantID = v.ID
	}
	item.CartID = LineID(p.ID, item.SelectedVariantID)

	c.Open = true
	for i := range c.Items {
		if c.Items[i].CartID == item.CartID {
			c.Items[i].Quantity += quantity
			return c.Items[i], nil
		}
	}
	c.Items = append(c.Items, item)
	return item, nil
}

// Find returns the line with cartID.
func (c *Cart) Find(cartID string) (Item, bool) {
	for _, it := range c.Items {
		if it.CartID == cartID {
			return it, true
		}
	}
	return Item{}, false
}

// Remove drops the line with cartID. Unknown ids are ignored.
func (c *Cart) Remove(cartID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity of a line; q below one removes it.
func (c *Cart) UpdateQuantity(cartID string, q int) error {
	if q < 1 {
		c.Remove(cartID)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].CartID == cartID {
			c.Items[i].Quantity = q
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total sums every line. Lines without a price contribute zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Units counts every unit in the cart.
func (c *Cart) Units() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
