// Package checkout turns the session cart into either a WhatsApp message
// for guests or a persisted order for signed in customers.
package checkout

import (
	"fmt"
	"strings"

	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/pricing"
	"github.com/istmoglobal/storefront/internal/whatsapp"
)

// GuestMessage composes the order text sent over WhatsApp. Lines without a
// price, or any line while prices are hidden, show the placeholder.
func GuestMessage(c cart.Cart, pr pricing.Presenter) string {
	var b strings.Builder
	b.WriteString(i18n.T(pr.Lang, i18n.OrderGuestHeader))
	b.WriteString("\n\n")
	for i, it := range c.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		price := pr.Placeholder()
		if pr.ShowPrices && it.Price > 0 {
			price = "$" + pricing.FormatPlain(it.Price)
		}
		fmt.Fprintf(&b, "- %dx %s (%s)", it.Quantity, it.Size, price)
	}
	if pr.ShowPrices {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, i18n.T(pr.Lang, i18n.OrderTotal), c.Total().StringFixed(2))
	}
	return b.String()
}

// WhatsAppURL builds the click-to-chat link carrying message.
func WhatsAppURL(phone, message string) string {
	return whatsapp.Link(phone, message)
}
