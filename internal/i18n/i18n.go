// Package i18n negotiates the storefront language and holds the handful of
// messages the server composes itself (price placeholder, WhatsApp order text).
package i18n

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/istmoglobal/storefront/internal/shared"
)

// Lang is a supported storefront language.
type Lang string

const (
	Spanish Lang = "es"
	English Lang = "en"
)

// SessionKey stores the language preference in the session.
const SessionKey = "language"

// Spanish is listed first so it is the fallback for unmatched requests.
var matcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// Parse returns the supported language for raw, or false when unsupported.
func Parse(raw string) (Lang, bool) {
	switch Lang(raw) {
	case Spanish, English:
		return Lang(raw), true
	}
	return "", false
}

// Negotiate picks the first explicit preference that is supported and falls
// back to matching the Accept-Language header.
func Negotiate(preferred string, acceptLanguage string) Lang {
	if lang, ok := Parse(preferred); ok {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Spanish
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return English
	}
	return Spanish
}

// Message keys.
const (
	PriceInquire     = "priceInquire"
	OrderGuestHeader = "orderGuestHeader"
	OrderTotal       = "orderTotal"
	OrderPlaced      = "orderPlaced"
	InvalidLogin     = "invalidLogin"
	QuantityLimit    = "quantityLimit"
)

var messages = map[string]map[Lang]string{
	PriceInquire:     {Spanish: "Consultar", English: "Inquire"},
	OrderGuestHeader: {Spanish: "*Nueva Orden de Pedido (Invitado)*", English: "*New Order Request (Guest)*"},
	OrderTotal:       {Spanish: "*Total Estimado: $%s*", English: "*Estimated Total: $%s*"},
	OrderPlaced:      {Spanish: "¡Pedido realizado con éxito! Un agente te contactará pronto.", English: "Order placed successfully! An agent will contact you soon."},
	InvalidLogin:     {Spanish: "Credenciales inválidas", English: "Invalid credentials"},
	QuantityLimit: {
		Spanish: "Límite de 8 unidades para ventas regulares (B2C). Regístrate como Mayorista (B2B) para pedidos mayores.",
		English: "Limit of 8 units for retail sales (B2C). Register as a wholesaler (B2B) for larger orders.",
	},
}

// T returns the message for key in lang, or key itself when unknown.
func T(lang Lang, key string) string {
	byLang, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLang[lang]; ok {
		return msg
	}
	return byLang[Spanish]
}

var monthNames = map[Lang][12]string{
	Spanish: {"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"},
	English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// MonthName returns the short month name for month (1-12).
func MonthName(lang Lang, month int) string {
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames[Spanish]
	}
	if month < 1 || month > 12 {
		return ""
	}
	return names[month-1]
}

// FromRequest resolves the language of the request from the session
// preference, then the lang query parameter, then Accept-Language.
func FromRequest(r *http.Request) Lang {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if lang, ok := Parse(sess.Get(SessionKey)); ok {
			return lang
		}
	}
	return Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}
