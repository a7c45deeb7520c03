package cart

import (
	"github.com/istmoglobal/storefront/internal/pricing"
)

// ItemView is a cart line as sent to clients. Prices are null when hidden.
type ItemView struct {
	Item
	Price      *float64 `json:"price"`
	PriceLabel string   `json:"priceLabel"`
	Subtotal   *float64 `json:"subtotal"`
}

// View is the cart as sent to clients.
type View struct {
	Items      []ItemView `json:"items"`
	Units      int        `json:"units"`
	Total      *float64   `json:"total"`
	TotalLabel string     `json:"totalLabel"`
	Open       bool       `json:"open"`
	Limit      int        `json:"limit"`
}

// NewView renders c through the presenter. limit is the per line cap of
// the viewer, 0 when unlimited.
func NewView(c Cart, pr pricing.Presenter, limit int) View {
	items := make([]ItemView, 0, len(c.Items))
	for _, it := range c.Items {
		sub, _ := it.Subtotal().Float64()
		items = append(items, ItemView{
			Item:       it,
			Price:      pr.Amount(it.Price),
			PriceLabel: pr.Label(it.Price),
			Subtotal:   pr.Amount(sub),
		})
	}
	total, _ := c.Total().Float64()
	return View{
		Items:      items,
		Units:      c.Units(),
		Total:      pr.Amount(total),
		TotalLabel: pr.Label(total),
		Open:       c.Open,
		Limit:      limit,
	}
}
