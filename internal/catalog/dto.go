package catalog

// BrandInput is the admin payload for creating or updating a brand.
type BrandInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Image       string  `json:"image" validate:"omitempty,url"`
}

// CategoryInput is the admin payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// VariantInput describes one variant in a product payload. An empty ID
// requests a new variant.
type VariantInput struct {
	ID     string  `json:"id"`
	Size   string  `json:"size" validate:"required,max=60"`
	Price  float64 `json:"price" validate:"gte=0"`
	Status Status  `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	BrandID        string         `json:"brandId" validate:"required"`
	Name           string         `json:"name" validate:"max=160"`
	CategoryID     string         `json:"categoryId"`
	Description    string         `json:"description" validate:"max=4000"`
	Image          string         `json:"image"`
	TechSheetImage string         `json:"techSheetImage"`
	Status         Status         `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Size           string         `json:"size" validate:"max=60"`
	Price          float64        `json:"price" validate:"gte=0"`
	Variants       []VariantInput `json:"variants" validate:"dive"`
}
