// Package dashboard aggregates the back office landing page figures.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/prospects"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
	newProspectsLimit = 5
	salesMonths       = 6
	newProspectWindow = 7 * 24 * time.Hour
)

// CatalogReader lists catalog entities.
type CatalogReader interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	Brands(ctx context.Context) ([]catalog.Brand, error)
}

// ProspectLister lists prospects newest first.
type ProspectLister interface {
	List(ctx context.Context) ([]prospects.Prospect, error)
}

// OrderLister lists orders newest first.
type OrderLister interface {
	List(ctx context.Context) ([]orders.Order, error)
}

// Counts are the headline totals.
type Counts struct {
	Products   int `json:"products"`
	Categories int `json:"categories"`
	Brands     int `json:"brands"`
	Prospects  int `json:"prospects"`
	Orders     int `json:"orders"`
}

// TopProduct is a product ranked by units ordered.
type TopProduct struct {
	Product catalog.Product `json:"product"`
	Units   int             `json:"units"`
}

// MonthTotal is the rounded order total of one calendar month.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// Summary is the dashboard payload.
type Summary struct {
	Counts           Counts               `json:"counts"`
	NewProspectCount int                  `json:"newProspectCount"`
	NewProspects     []prospects.Prospect `json:"newProspects"`
	TopProducts      []TopProduct         `json:"topProducts"`
	SalesByMonth     []MonthTotal         `json:"salesByMonth"`
	RecentOrders     []orders.Order       `json:"recentOrders"`
}

// Service assembles the dashboard.
type Service struct {
	catalog   CatalogReader
	prospects ProspectLister
	orders    OrderLister
	now       func() time.Time
}

// NewService builds a Service.
func NewService(c CatalogReader, p ProspectLister, o OrderLister) *Service {
	return &Service{catalog: c, prospects: p, orders: o, now: time.Now}
}

// Summary loads every source concurrently and aggregates them.
func (s *Service) Summary(ctx context.Context, lang i18n.Lang) (Summary, error) {
	var (
		products   []catalog.Product
		categories []catalog.Category
		brands     []catalog.Brand
		leads      []prospects.Prospect
		placed     []orders.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.Products(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.catalog.Categories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = s.catalog.Brands(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = s.prospects.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		placed, err = s.orders.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	fresh := NewProspects(leads, s.now().Add(-newProspectWindow))
	summary := Summary{
		Counts: Counts{
			Products:   len(products),
			Categories: len(categories),
			Brands:     len(brands),
			Prospects:  len(leads),
			Orders:     len(placed),
		},
		NewProspectCount: len(fresh),
		NewProspects:     fresh[:min(len(fresh), newProspectsLimit)],
		TopProducts:      TopProducts(placed, products, topProductsLimit),
		SalesByMonth:     SalesByMonth(placed, lang, salesMonths),
		RecentOrders:     RecentOrders(placed, recentOrdersLimit),
	}
	return summary, nil
}

// NewProspects keeps prospects created at or after since.
func NewProspects(leads []prospects.Prospect, since time.Time) []prospects.Prospect {
	out := make([]prospects.Prospect, 0)
	for _, p := range leads {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out
}

type snapshotLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// TopProducts ranks products by units across order snapshots. Snapshots
// that do not decode are skipped, lines without quantity count as one,
// and the ranking drops products no longer in the catalog.
func TopProducts(placed []orders.Order, products []catalog.Product, limit int) []TopProduct {
	units := make(map[string]int)
	for _, o := range placed {
		var lines []snapshotLine
		if err := json.Unmarshal([]byte(o.Items), &lines); err != nil {
			continue
		}
		for _, l := range lines {
			q := l.Quantity
			if q <= 0 {
				q = 1
			}
			units[l.ID] += q
		}
	}

	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if units[ids[i]] != units[ids[j]] {
			return units[ids[i]] > units[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]TopProduct, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, TopProduct{Product: p, Units: units[id]})
		}
	}
	return out
}

// SalesByMonth totals orders per calendar month, oldest first, keeping the
// last months that have orders.
func SalesByMonth(placed []orders.Order, lang i18n.Lang, months int) []MonthTotal {
	type key struct {
		year  int
		month time.Month
	}
	totals := make(map[key]float64)
	for _, o := range placed {
		k := key{o.CreatedAt.Year(), o.CreatedAt.Month()}
		totals[k] += o.Total
	}
	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}
	out := make([]MonthTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthTotal{
			Month: fmt.Sprintf("%s %d", i18n.MonthName(lang, int(k.month)), k.year),
			Total: math.Round(totals[k]),
		})
	}
	return out
}

// RecentOrders returns the newest limit orders.
func RecentOrders(placed []orders.Order, limit int) []orders.Order {
	sorted := append([]orders.Order(nil), placed...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
