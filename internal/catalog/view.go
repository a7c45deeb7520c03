package catalog

import "github.com/istmoglobal/storefront/internal/pricing"

// VariantView is the storefront rendering of a variant.
type VariantView struct {
	ID         string   `json:"id"`
	Size       string   `json:"size"`
	Price      *float64 `json:"price"`
	PriceLabel string   `json:"priceLabel"`
	Status     Status   `json:"status"`
}

// ProductView is the storefront rendering of a product. Price is null when
// prices are hidden.
type ProductView struct {
	ID             string        `json:"id"`
	BrandID        string        `json:"brandId"`
	BrandName      string        `json:"brandName"`
	Name           string        `json:"name,omitempty"`
	CategoryID     string        `json:"categoryId"`
	Description    string        `json:"description"`
	Image          string        `json:"image"`
	TechSheetImage string        `json:"techSheetImage,omitempty"`
	Status         Status        `json:"status"`
	Size           string        `json:"size"`
	Price          *float64      `json:"price"`
	PriceLabel     string        `json:"priceLabel"`
	Variants       []VariantView `json:"variants"`
}

// NewProductView renders p through the presenter.
func NewProductView(p Product, brandName string, pr pricing.Presenter) ProductView {
	v := ProductView{
		ID:             p.ID,
		BrandID:        p.BrandID,
		BrandName:      brandName,
		Name:           p.Name,
		CategoryID:     p.CategoryID,
		Description:    p.Description,
		Image:          p.Image,
		TechSheetImage: p.TechSheetImage,
		Status:         p.Status,
		Size:           p.Size,
		Price:          pr.Amount(p.Price),
		PriceLabel:     pr.Label(p.Price),
		Variants:       make([]VariantView, 0, len(p.Variants)),
	}
	for _, variant := range p.Variants {
		v.Variants = append(v.Variants, VariantView{
			ID:         variant.ID,
			Size:       variant.Size,
			Price:      pr.Amount(variant.Price),
			PriceLabel: pr.Label(variant.Price),
			Status:     variant.Status,
		})
	}
	return v
}

// NewProductViews renders a list of products.
func NewProductViews(products []Product, brands map[string]string, pr pricing.Presenter) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductView(p, brands[p.BrandID], pr))
	}
	return out
}
