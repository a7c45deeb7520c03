package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service implements catalog business rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewService constructs a catalog service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Store exposes the underlying persistence port.
func (s *Service) Store() Store {
	return s.store
}

// Brands lists every brand.
func (s *Service) Brands(ctx context.Context) ([]Brand, error) {
	return s.store.ListBrands(ctx)
}

// CreateBrand persists a new brand.
func (s *Service) CreateBrand(ctx context.Context, in BrandInput) (Brand, error) {
	b := Brand{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Image:       optional(in.Image),
		CreatedAt:   s.now().UTC(),
	}
	if b.Name == "" {
		return Brand{}, fmt.Errorf("%w: brand name required", ErrInvalid)
	}
	if err := s.store.CreateBrand(ctx, b); err != nil {
		return Brand{}, fmt.Errorf("create brand: %w", err)
	}
	return b, nil
}

// UpdateBrand overwrites the mutable fields of a brand.
func (s *Service) UpdateBrand(ctx context.Context, id string, in BrandInput) (Brand, error) {
	b, err := s.store.GetBrand(ctx, id)
	if err != nil {
		return Brand{}, err
	}
	b.Name = strings.TrimSpace(in.Name)
	b.Description = in.Description
	b.Image = optional(in.Image)
	if b.Name == "" {
		return Brand{}, fmt.Errorf("%w: brand name required", ErrInvalid)
	}
	if err := s.store.UpdateBrand(ctx, b); err != nil {
		return Brand{}, fmt.Errorf("update brand: %w", err)
	}
	return b, nil
}

// optional maps a blank value to nil.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// DeleteBrand removes a brand that no product references. The reference
// check runs before the delete so a referenced brand is never touched.
func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		n, err := tx.CountProductsByBrand(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBrandInUse
		}
		return tx.DeleteBrand(ctx, id)
	})
}

// Categories lists every category.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

// CreateCategory persists a new category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	c := Category{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	}
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category name required", ErrInvalid)
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// UpdateCategory overwrites the mutable fields of a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category name required", ErrInvalid)
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category. Products keep their stale reference
// cleared by the database.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.store.DeleteCategory(ctx, id)
}

// Products lists all products regardless of status.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	return s.store.ListProducts(ctx)
}

// ActiveProducts lists products offered in the storefront.
func (s *Service) ActiveProducts(ctx context.Context) ([]Product, error) {
	all, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Product, 0, len(all))
	for _, p := range all {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// Product returns a product by id.
func (s *Service) Product(ctx context.Context, id string) (Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ActiveProduct returns a product only when it is offered in the storefront.
func (s *Service) ActiveProduct(ctx context.Context, id string) (Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if p.Status != StatusActive {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// CreateProduct persists a product and its variants in one transaction.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	now := s.now().UTC()
	p := s.build(in)
	p.ID = s.newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncDefault()
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.CreateProduct(ctx, p)
	})
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct rewrites a product and replaces its variants in one transaction.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	var out Product
	err := s.store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		existing, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		p := s.build(in)
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = s.now().UTC()
		p.SyncDefault()
		if err := validateProduct(p); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return out, nil
}

// DeleteProduct removes a product and, by cascade, its variants.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) build(in ProductInput) Product {
	p := Product{
		BrandID:        in.BrandID,
		Name:           strings.TrimSpace(in.Name),
		CategoryID:     in.CategoryID,
		Description:    in.Description,
		Image:          in.Image,
		TechSheetImage: in.TechSheetImage,
		Status:         in.Status,
		Size:           strings.TrimSpace(in.Size),
		Price:          in.Price,
		Variants:       make([]Variant, 0, len(in.Variants)),
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	for _, v := range in.Variants {
		variant := Variant{
			ID:     v.ID,
			Size:   strings.TrimSpace(v.Size),
			Price:  v.Price,
			Status: v.Status,
		}
		if variant.ID == "" {
			variant.ID = s.newID()
		}
		if variant.Status == "" {
			variant.Status = StatusActive
		}
		p.Variants = append(p.Variants, variant)
	}
	return p
}

func validateProduct(p Product) error {
	if p.BrandID == "" {
		return fmt.Errorf("%w: brand required", ErrInvalid)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, p.Status)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalid)
	}
	for _, v := range p.Variants {
		if v.Size == "" {
			return fmt.Errorf("%w: variant size required", ErrInvalid)
		}
		if v.Price < 0 {
			return fmt.Errorf("%w: negative variant price", ErrInvalid)
		}
		if !v.Status.Valid() {
			return fmt.Errorf("%w: unknown variant status %q", ErrInvalid, v.Status)
		}
	}
	return nil
}
