// Package pricing decides how monetary values are exposed to storefront
// visitors depending on the site wide price visibility flag.
package pricing

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/istmoglobal/storefront/internal/i18n"
)

// Source resolves the presenter for a request.
type Source interface {
	Presenter(r *http.Request) Presenter
}

// Static is a Source that always returns the same presenter.
type Static Presenter

// Presenter implements Source.
func (s Static) Presenter(*http.Request) Presenter {
	return Presenter(s)
}

// Presenter renders prices for one request.
type Presenter struct {
	ShowPrices bool
	Lang       i18n.Lang
}

// Amount returns a pointer to price when prices are visible, nil otherwise.
// A nil amount is serialised as JSON null so clients cannot read hidden prices.
func (p Presenter) Amount(price float64) *float64 {
	if !p.ShowPrices {
		return nil
	}
	v := price
	return &v
}

// Label formats price as "$12.50", or the localized placeholder when hidden.
func (p Presenter) Label(price float64) string {
	if !p.ShowPrices {
		return i18n.T(p.Lang, i18n.PriceInquire)
	}
	return "$" + FormatFixed(price)
}

// Placeholder is the localized text shown instead of hidden prices.
func (p Presenter) Placeholder() string {
	return i18n.T(p.Lang, i18n.PriceInquire)
}

// FormatFixed renders v with two decimals.
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPlain renders v without trailing zeros ("50", "49.9").
func FormatPlain(v float64) string {
	return decimal.NewFromFloat(v).String()
}
