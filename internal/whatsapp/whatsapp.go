// Package whatsapp builds click-to-chat links.
package whatsapp

import (
	"net/url"
	"strings"
)

// Base is the click-to-chat endpoint.
const Base = "https://wa.me/"

// Link returns the chat link for phone with an optional prefilled text.
// Non digits are stripped from phone; an empty phone lets the user pick
// the recipient.
func Link(phone, text string) string {
	link := Base + Digits(phone)
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Digits keeps only the decimal digits of s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
