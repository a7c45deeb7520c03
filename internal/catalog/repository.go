package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/istmoglobal/storefront/internal/platform/db"
)

// Store is the persistence port used by the catalog service and the CSV importer.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error

	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrand(ctx context.Context, id string) (Brand, error)
	CreateBrand(ctx context.Context, b Brand) error
	UpdateBrand(ctx context.Context, b Brand) error
	DeleteBrand(ctx context.Context, id string) error
	CountProductsByBrand(ctx context.Context, brandID string) (int, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) error
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence for the catalog.
type Repository struct {
	pool *pgxpool.Pool
	q    db.DBTX
}

// NewRepository constructs a repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
}

// WithTx runs fn inside a transaction. Calls on a transaction bound
// repository reuse the open transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &Repository{q: tx})
	})
}

const brandColumns = `id, name, description, image, created_at`

func scanBrand(row pgx.Row) (Brand, error) {
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Image, &b.CreatedAt)
	return b, err
}

func (r *Repository) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT `+brandColumns+` FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	brands := make([]Brand, 0)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *Repository) GetBrand(ctx context.Context, id string) (Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, ErrNotFound
	}
	return b, err
}

func (r *Repository) CreateBrand(ctx context.Context, b Brand) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO brands (id, name, description, image, created_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Description, b.Image, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *Repository) UpdateBrand(ctx context.Context, b Brand) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE brands SET name = $2, description = $3, image = $4 WHERE id = $1`,
		b.ID, b.Name, b.Description, b.Image)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBrand(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		if db.IsCode(err, db.CodeForeignKeyViolation) {
			return ErrBrandInUse
		}
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountProductsByBrand(ctx context.Context, brandID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE brand_id = $1`, brandID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count brand products: %w", err)
	}
	return n, nil
}

const categoryColumns = `id, name, description, created_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	categories := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id string) (Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateCategory(ctx context.Context, c Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCategory(ctx context.Context, c Category) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const productColumns = `id, brand_id, name, category_id, description, image, tech_sheet_image,
	status, size, price, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p          Product
		name       *string
		categoryID *string
		techSheet  *string
	)
	err := row.Scan(&p.ID, &p.BrandID, &name, &categoryID, &p.Description, &p.Image, &techSheet,
		&p.Status, &p.Size, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if name != nil {
		p.Name = *name
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if techSheet != nil {
		p.TechSheetImage = *techSheet
	}
	p.Variants = []Variant{}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	products := []Product{p}
	if err := r.attachVariants(ctx, products); err != nil {
		return Product{}, err
	}
	return products[0], nil
}

func (r *Repository) attachVariants(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}
	rows, err := r.q.Query(ctx, `SELECT id, product_id, size, price, status
		FROM product_variants WHERE product_id = ANY($1) ORDER BY product_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Status); err != nil {
			return err
		}
		i := index[v.ProductID]
		products[i].Variants = append(products[i].Variants, v)
	}
	return rows.Err()
}

func (r *Repository) CreateProduct(ctx context.Context, p Product) error {
	_, err := r.q.Exec(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.BrandID, nullable(p.Name), nullable(p.CategoryID), p.Description, p.Image,
		nullable(p.TechSheetImage), p.Status, p.Size, p.Price, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if db.IsCode(err, db.CodeForeignKeyViolation) {
			return fmt.Errorf("%w: unknown brand or category", ErrInvalid)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.insertVariants(ctx, p)
}

func (r *Repository) UpdateProduct(ctx context.Context, p Product) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET brand_id = $2, name = $3, category_id = $4,
		description = $5, image = $6, tech_sheet_image = $7, status = $8, size = $9, price = $10,
		updated_at = $11 WHERE id = $1`,
		p.ID, p.BrandID, nullable(p.Name), nullable(p.CategoryID), p.Description, p.Image,
		nullable(p.TechSheetImage), p.Status, p.Size, p.Price, p.UpdatedAt)
	if err != nil {
		if db.IsCode(err, db.CodeForeignKeyViolation) {
			return fmt.Errorf("%w: unknown brand or category", ErrInvalid)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear variants: %w", err)
	}
	return r.insertVariants(ctx, p)
}

func (r *Repository) insertVariants(ctx context.Context, p Product) error {
	for i, v := range p.Variants {
		_, err := r.q.Exec(ctx, `INSERT INTO product_variants (id, product_id, size, price, status, position)
			VALUES ($1, $2, $3, $4, $5, $6)`, v.ID, p.ID, v.Size, v.Price, v.Status, i)
		if err != nil {
			return fmt.Errorf("insert variant %s: %w", v.Size, err)
		}
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
