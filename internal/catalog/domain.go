package catalog

import (
	"fmt"
	"time"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Status marks whether a product or variant is offered in the storefront.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

var (
	// ErrNotFound indicates a missing brand, category or product.
	ErrNotFound = fmt.Errorf("catalog: %w", httpx.ErrNotFound)
	// ErrBrandInUse blocks deleting a brand that products still reference.
	ErrBrandInUse = fmt.Errorf("catalog: brand is referenced by products: %w", httpx.ErrConflict)
	// ErrInvalid wraps validation failures.
	ErrInvalid = fmt.Errorf("catalog: %w", httpx.ErrValidation)
)

// Brand is a tire manufacturer.
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Category groups products by vehicle segment.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Variant is one size/price combination of a product.
type Variant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Status    Status  `json:"status"`
}

// Product is a tire model of a brand. Size and Price mirror Variants[0]
// whenever variants exist.
type Product struct {
	ID             string    `json:"id"`
	BrandID        string    `json:"brandId"`
	Name           string    `json:"name,omitempty"`
	CategoryID     string    `json:"categoryId"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	TechSheetImage string    `json:"techSheetImage,omitempty"`
	Status         Status    `json:"status"`
	Size           string    `json:"size"`
	Price          float64   `json:"price"`
	Variants       []Variant `json:"variants"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SyncDefault snapshots the first variant into the product level size and
// price, and stamps the owning product id on every variant.
func (p *Product) SyncDefault() {
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
	}
	if len(p.Variants) == 0 {
		return
	}
	p.Size = p.Variants[0].Size
	p.Price = p.Variants[0].Price
}

// Variant returns the variant with id.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Sizes lists the base size followed by every variant size.
func (p Product) Sizes() []string {
	sizes := make([]string, 0, len(p.Variants)+1)
	if p.Size != "" {
		sizes = append(sizes, p.Size)
	}
	for _, v := range p.Variants {
		sizes = append(sizes, v.Size)
	}
	return sizes
}
