// Package catalogtest provides an in-memory catalog store for tests.
package catalogtest

import (
	"context"
	"sort"
	"sync"

	"github.com/istmoglobal/storefront/internal/catalog"
)

// Memory is a catalog.Store kept in maps. WithTx works on a copy that is
// published only when the callback succeeds.
type Memory struct {
	mu    sync.Mutex
	state *state

	// Hooks inject failures. A non-nil error aborts the call.
	FailCreateBrand    func(catalog.Brand) error
	FailCreateCategory func(catalog.Category) error
	FailCreateProduct  func(catalog.Product) error
	FailList           error
}

type state struct {
	brands     map[string]catalog.Brand
	categories map[string]catalog.Category
	products   map[string]catalog.Product
	order      []string
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{state: newState()}
}

func newState() *state {
	return &state{
		brands:     make(map[string]catalog.Brand),
		categories: make(map[string]catalog.Category),
		products:   make(map[string]catalog.Product),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.brands {
		c.brands[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	c.order = append([]string(nil), s.order...)
	return c
}

func copyProduct(p catalog.Product) catalog.Product {
	p.Variants = append([]catalog.Variant{}, p.Variants...)
	return p
}

type txStore struct {
	parent *Memory
	state  *state
}

// WithTx implements catalog.Store.
func (m *Memory) WithTx(ctx context.Context, fn func(context.Context, catalog.Store) error) error {
	m.mu.Lock()
	work := m.state.clone()
	m.mu.Unlock()
	if err := fn(ctx, &txStore{parent: m, state: work}); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = work
	m.mu.Unlock()
	return nil
}

func (m *Memory) view(fn func(*state) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.state)
}

// Brands returns every stored brand sorted by name.
func (m *Memory) Brands() []catalog.Brand {
	var out []catalog.Brand
	_ = m.view(func(s *state) error {
		out = listBrands(s)
		return nil
	})
	return out
}

// Categories returns every stored category sorted by name.
func (m *Memory) Categories() []catalog.Category {
	var out []catalog.Category
	_ = m.view(func(s *state) error {
		out = listCategories(s)
		return nil
	})
	return out
}

// Products returns every stored product in insertion order.
func (m *Memory) Products() []catalog.Product {
	var out []catalog.Product
	_ = m.view(func(s *state) error {
		out = listProducts(s)
		return nil
	})
	return out
}

func (m *Memory) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}
	return m.Brands(), nil
}

func (m *Memory) GetBrand(ctx context.Context, id string) (catalog.Brand, error) {
	var b catalog.Brand
	err := m.view(func(s *state) error { return getBrand(s, id, &b) })
	return b, err
}

func (m *Memory) CreateBrand(ctx context.Context, b catalog.Brand) error {
	return m.view(func(s *state) error { return m.createBrand(s, b) })
}

func (m *Memory) UpdateBrand(ctx context.Context, b catalog.Brand) error {
	return m.view(func(s *state) error { return updateBrand(s, b) })
}

func (m *Memory) DeleteBrand(ctx context.Context, id string) error {
	return m.view(func(s *state) error { return deleteBrand(s, id) })
}

func (m *Memory) CountProductsByBrand(ctx context.Context, brandID string) (int, error) {
	var n int
	_ = m.view(func(s *state) error {
		n = countByBrand(s, brandID)
		return nil
	})
	return n, nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}
	return m.Categories(), nil
}

func (m *Memory) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	var c catalog.Category
	err := m.view(func(s *state) error { return getCategory(s, id, &c) })
	return c, err
}

func (m *Memory) CreateCategory(ctx context.Context, c catalog.Category) error {
	return m.view(func(s *state) error { return m.createCategory(s, c) })
}

func (m *Memory) UpdateCategory(ctx context.Context, c catalog.Category) error {
	return m.view(func(s *state) error { return updateCategory(s, c) })
}

func (m *Memory) DeleteCategory(ctx context.Context, id string) error {
	return m.view(func(s *state) error { return deleteCategory(s, id) })
}

func (m *Memory) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}
	return m.Products(), nil
}

func (m *Memory) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := m.view(func(s *state) error { return getProduct(s, id, &p) })
	return p, err
}

func (m *Memory) CreateProduct(ctx context.Context, p catalog.Product) error {
	return m.view(func(s *state) error { return m.createProduct(s, p) })
}

func (m *Memory) UpdateProduct(ctx context.Context, p catalog.Product) error {
	return m.view(func(s *state) error { return updateProduct(s, p) })
}

func (m *Memory) DeleteProduct(ctx context.Context, id string) error {
	return m.view(func(s *state) error { return deleteProduct(s, id) })
}

func (t *txStore) WithTx(ctx context.Context, fn func(context.Context, catalog.Store) error) error {
	return fn(ctx, t)
}

func (t *txStore) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	return listBrands(t.state), nil
}

func (t *txStore) GetBrand(ctx context.Context, id string) (catalog.Brand, error) {
	var b catalog.Brand
	return b, getBrand(t.state, id, &b)
}

func (t *txStore) CreateBrand(ctx context.Context, b catalog.Brand) error {
	return t.parent.createBrand(t.state, b)
}

func (t *txStore) UpdateBrand(ctx context.Context, b catalog.Brand) error {
	return updateBrand(t.state, b)
}

func (t *txStore) DeleteBrand(ctx context.Context, id string) error {
	return deleteBrand(t.state, id)
}

func (t *txStore) CountProductsByBrand(ctx context.Context, brandID string) (int, error) {
	return countByBrand(t.state, brandID), nil
}

func (t *txStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return listCategories(t.state), nil
}

func (t *txStore) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	var c catalog.Category
	return c, getCategory(t.state, id, &c)
}

func (t *txStore) CreateCategory(ctx context.Context, c catalog.Category) error {
	return t.parent.createCategory(t.state, c)
}

func (t *txStore) UpdateCategory(ctx context.Context, c catalog.Category) error {
	return updateCategory(t.state, c)
}

func (t *txStore) DeleteCategory(ctx context.Context, id string) error {
	return deleteCategory(t.state, id)
}

func (t *txStore) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return listProducts(t.state), nil
}

func (t *txStore) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	return p, getProduct(t.state, id, &p)
}

func (t *txStore) CreateProduct(ctx context.Context, p catalog.Product) error {
	return t.parent.createProduct(t.state, p)
}

func (t *txStore) UpdateProduct(ctx context.Context, p catalog.Product) error {
	return updateProduct(t.state, p)
}

func (t *txStore) DeleteProduct(ctx context.Context, id string) error {
	return deleteProduct(t.state, id)
}

func listBrands(s *state) []catalog.Brand {
	out := make([]catalog.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func getBrand(s *state, id string, dst *catalog.Brand) error {
	b, ok := s.brands[id]
	if !ok {
		return catalog.ErrNotFound
	}
	*dst = b
	return nil
}

func (m *Memory) createBrand(s *state, b catalog.Brand) error {
	if m.FailCreateBrand != nil {
		if err := m.FailCreateBrand(b); err != nil {
			return err
		}
	}
	s.brands[b.ID] = b
	return nil
}

func updateBrand(s *state, b catalog.Brand) error {
	if _, ok := s.brands[b.ID]; !ok {
		return catalog.ErrNotFound
	}
	s.brands[b.ID] = b
	return nil
}

func deleteBrand(s *state, id string) error {
	if _, ok := s.brands[id]; !ok {
		return catalog.ErrNotFound
	}
	if countByBrand(s, id) > 0 {
		return catalog.ErrBrandInUse
	}
	delete(s.brands, id)
	return nil
}

func countByBrand(s *state, brandID string) int {
	n := 0
	for _, p := range s.products {
		if p.BrandID == brandID {
			n++
		}
	}
	return n
}

func listCategories(s *state) []catalog.Category {
	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func getCategory(s *state, id string, dst *catalog.Category) error {
	c, ok := s.categories[id]
	if !ok {
		return catalog.ErrNotFound
	}
	*dst = c
	return nil
}

func (m *Memory) createCategory(s *state, c catalog.Category) error {
	if m.FailCreateCategory != nil {
		if err := m.FailCreateCategory(c); err != nil {
			return err
		}
	}
	s.categories[c.ID] = c
	return nil
}

func updateCategory(s *state, c catalog.Category) error {
	if _, ok := s.categories[c.ID]; !ok {
		return catalog.ErrNotFound
	}
	s.categories[c.ID] = c
	return nil
}

func deleteCategory(s *state, id string) error {
	if _, ok := s.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.categories, id)
	for pid, p := range s.products {
		if p.CategoryID == id {
			p.CategoryID = ""
			s.products[pid] = p
		}
	}
	return nil
}

func listProducts(s *state) []catalog.Product {
	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out
}

func getProduct(s *state, id string, dst *catalog.Product) error {
	p, ok := s.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	*dst = copyProduct(p)
	return nil
}

func (m *Memory) createProduct(s *state, p catalog.Product) error {
	if m.FailCreateProduct != nil {
		if err := m.FailCreateProduct(p); err != nil {
			return err
		}
	}
	if _, ok := s.brands[p.BrandID]; !ok {
		return catalog.ErrInvalid
	}
	s.products[p.ID] = copyProduct(p)
	s.order = append(s.order, p.ID)
	return nil
}

func updateProduct(s *state, p catalog.Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func deleteProduct(s *state, id string) error {
	if _, ok := s.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ catalog.Store = (*Memory)(nil)
