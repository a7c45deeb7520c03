package catalog

import (
	"sort"
	"strings"
)

// QuickSearchLimit caps the number of quick search suggestions.
const QuickSearchLimit = 5

// Filter narrows the public product list.
type Filter struct {
	Query      string
	Size       string
	CategoryID string
}

// Normalize trims the filter fields.
func (f Filter) Normalize() Filter {
	return Filter{
		Query:      strings.TrimSpace(f.Query),
		Size:       strings.TrimSpace(f.Size),
		CategoryID: strings.TrimSpace(f.CategoryID),
	}
}

// Matches reports whether p, owned by the brand called brandName, passes f.
// The query is a case-insensitive substring match over the brand name, the
// product name and every size. Size and category are exact.
func (f Filter) Matches(p Product, brandName string) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	sizes := p.Sizes()
	if f.Size != "" && !containsExact(sizes, f.Size) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(brandName), q) || strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, s := range sizes {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// BrandNames indexes brand names by id.
func BrandNames(brands []Brand) map[string]string {
	names := make(map[string]string, len(brands))
	for _, b := range brands {
		names[b.ID] = b.Name
	}
	return names
}

// Search returns the active products matching f in input order.
func Search(products []Product, brands map[string]string, f Filter) []Product {
	f = f.Normalize()
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status != StatusActive {
			continue
		}
		if f.Matches(p, brands[p.BrandID]) {
			out = append(out, p)
		}
	}
	return out
}

// QuickSearch returns at most QuickSearchLimit matches. An empty query and
// size yields no suggestions.
func QuickSearch(products []Product, brands map[string]string, query, size string) []Product {
	f := Filter{Query: query, Size: size}.Normalize()
	if f.Query == "" && f.Size == "" {
		return []Product{}
	}
	matches := Search(products, brands, f)
	if len(matches) > QuickSearchLimit {
		matches = matches[:QuickSearchLimit]
	}
	return matches
}

// Sizes lists the distinct non-empty sizes offered by active products, sorted.
func Sizes(products []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if p.Status != StatusActive {
			continue
		}
		for _, s := range p.Sizes() {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func containsExact(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
