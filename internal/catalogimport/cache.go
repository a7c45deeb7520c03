package catalogimport

import (
	"context"
	"strings"
)

// nameCache resolves brand and category names case-insensitively. The
// first category seen is the fallback for products without one.
type nameCache struct {
	brands     map[string]string
	categories map[string]string
	firstCat   string
}

func (im *Importer) loadCache(ctx context.Context) (*nameCache, error) {
	brands, err := im.store.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := im.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c := &nameCache{
		brands:     make(map[string]string, len(brands)),
		categories: make(map[string]string, len(categories)),
	}
	for _, b := range brands {
		key := strings.ToLower(b.Name)
		if _, ok := c.brands[key]; !ok {
			c.brands[key] = b.ID
		}
	}
	for _, cat := range categories {
		if c.firstCat == "" {
			c.firstCat = cat.ID
		}
		key := strings.ToLower(cat.Name)
		if _, ok := c.categories[key]; !ok {
			c.categories[key] = cat.ID
		}
	}
	return c, nil
}

// pendingCache layers uncommitted entries over the shared cache.
type pendingCache struct {
	base       *nameCache
	brands     map[string]string
	categories map[string]string
	firstCat   string
}

func (c *nameCache) begin() *pendingCache {
	return &pendingCache{
		base:       c,
		brands:     make(map[string]string),
		categories: make(map[string]string),
	}
}

func (p *pendingCache) brand(name string) (string, bool) {
	key := strings.ToLower(name)
	if id, ok := p.brands[key]; ok {
		return id, true
	}
	id, ok := p.base.brands[key]
	return id, ok
}

func (p *pendingCache) category(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	key := strings.ToLower(name)
	if id, ok := p.categories[key]; ok {
		return id, true
	}
	id, ok := p.base.categories[key]
	return id, ok
}

func (p *pendingCache) firstCategory() string {
	if p.base.firstCat != "" {
		return p.base.firstCat
	}
	return p.firstCat
}

func (p *pendingCache) addBrand(name, id string) {
	p.brands[strings.ToLower(name)] = id
}

func (p *pendingCache) addCategory(name, id string) {
	if p.base.firstCat == "" && p.firstCat == "" {
		p.firstCat = id
	}
	p.categories[strings.ToLower(name)] = id
}

// commit publishes the entries created by a successful transaction.
func (p *pendingCache) commit() {
	for k, v := range p.brands {
		p.base.brands[k] = v
	}
	for k, v := range p.categories {
		p.base.categories[k] = v
	}
	if p.base.firstCat == "" {
		p.base.firstCat = p.firstCat
	}
}
