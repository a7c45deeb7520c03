// Package directory renders the back office detail card of a contact,
// which is either a registered account or a prospect.
package directory

import (
	"fmt"
	"time"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/prospects"
	"github.com/istmoglobal/storefront/internal/users"
	"github.com/istmoglobal/storefront/internal/whatsapp"
)

// Kind names a contact variant in URLs.
type Kind string

const (
	KindUser     Kind = "user"
	KindProspect Kind = "prospect"
)

// ErrUnknownKind rejects contact kinds other than user and prospect.
var ErrUnknownKind = fmt.Errorf("directory: unknown contact kind: %w", httpx.ErrValidation)

// Contact is implemented only by UserContact and ProspectContact.
type Contact interface {
	kind() Kind
}

// UserContact wraps a registered account.
type UserContact struct {
	User users.User
}

// ProspectContact wraps a sales lead.
type ProspectContact struct {
	Prospect prospects.Prospect
}

func (UserContact) kind() Kind     { return KindUser }
func (ProspectContact) kind() Kind { return KindProspect }

// Detail is the flattened card shown in the back office.
type Detail struct {
	Kind      Kind              `json:"kind"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Company   string            `json:"company,omitempty"`
	Country   string            `json:"country,omitempty"`
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	WhatsApp  string            `json:"whatsappUrl,omitempty"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Describe flattens c into a Detail.
func Describe(c Contact) Detail {
	switch v := c.(type) {
	case UserContact:
		u := v.User
		d := Detail{
			Kind:      KindUser,
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Company:   u.Company,
			Country:   u.Details.Country,
			Status:    string(u.Role),
			Phone:     u.Details.Phone,
			CreatedAt: u.CreatedAt,
			Fields: compact(map[string]string{
				"address": u.Details.Address,
				"city":    u.Details.City,
				"taxId":   u.Details.TaxID,
			}),
		}
		if whatsapp.Digits(u.Details.Phone) != "" {
			d.WhatsApp = whatsapp.Link(u.Details.Phone, "")
		}
		return d
	case ProspectContact:
		p := v.Prospect
		fields := map[string]string{}
		if p.ProductOfInterest != nil {
			fields["productOfInterest"] = *p.ProductOfInterest
		}
		return Detail{
			Kind:      KindProspect,
			ID:        p.ID,
			Name:      p.Name,
			Email:     p.Email,
			Company:   p.Company,
			Country:   p.Country,
			Status:    string(p.Status),
			Message:   p.Message,
			CreatedAt: p.CreatedAt,
			Fields:    fields,
		}
	default:
		panic(fmt.Sprintf("directory: unhandled contact %T", c))
	}
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
