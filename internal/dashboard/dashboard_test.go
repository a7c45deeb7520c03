package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/prospects"
)

type fakeCatalog struct {
	products []catalog.Product
	err      error
}

func (f fakeCatalog) Products(context.Context) ([]catalog.Product, error) { return f.products, f.err }
func (f fakeCatalog) Categories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: "c1"}, {ID: "c2"}}, nil
}
func (f fakeCatalog) Brands(context.Context) ([]catalog.Brand, error) {
	return []catalog.Brand{{ID: "b1"}}, nil
}

type fakeProspects []prospects.Prospect

func (f fakeProspects) List(context.Context) ([]prospects.Prospect, error) { return f, nil }

type fakeOrders []orders.Order

func (f fakeOrders) List(context.Context) ([]orders.Order, error) { return f, nil }

var now = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

func month(m time.Month, day int) time.Time {
	return time.Date(2026, m, day, 10, 0, 0, 0, time.UTC)
}

func sampleOrders() fakeOrders {
	return fakeOrders{
		{ID: "o1", Items: `[{"id":"p1","quantity":4},{"id":"p2","quantity":1}]`, Total: 400.4, CreatedAt: month(time.January, 3)},
		{ID: "o2", Items: `not json`, Total: 10, CreatedAt: month(time.February, 3)},
		{ID: "o3", Items: `[{"id":"p2"},{"id":"gone","quantity":50}]`, Total: 99.6, CreatedAt: month(time.February, 9)},
		{ID: "o4", Items: `[{"id":"p3","quantity":2}]`, Total: 1, CreatedAt: month(time.March, 1)},
		{ID: "o5", Items: `[]`, Total: 1, CreatedAt: month(time.April, 1)},
		{ID: "o6", Items: `[]`, Total: 1, CreatedAt: month(time.May, 1)},
		{ID: "o7", Items: `[]`, Total: 1, CreatedAt: month(time.June, 1)},
		{ID: "o8", Items: `[]`, Total: 2.5, CreatedAt: month(time.July, 1)},
	}
}

func TestTopProducts(t *testing.T) {
	products := []catalog.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	top := TopProducts(sampleOrders(), products, 5)
	require.Len(t, top, 3)
	assert.Equal(t, "p1", top[0].Product.ID)
	assert.Equal(t, 4, top[0].Units)
	assert.Equal(t, "p2", top[1].Product.ID)
	assert.Equal(t, 2, top[1].Units)
	assert.Equal(t, "p3", top[2].Product.ID)
}

func TestSalesByMonthKeepsLastSix(t *testing.T) {
	got := SalesByMonth(sampleOrders(), i18n.Spanish, 6)
	require.Len(t, got, 6)
	assert.Equal(t, MonthTotal{Month: "Feb 2026", Total: 110}, got[0])
	assert.Equal(t, MonthTotal{Month: "Jul 2026", Total: 3}, got[5])

	en := SalesByMonth(sampleOrders(), i18n.English, 6)
	assert.Equal(t, "Apr 2026", en[2].Month)
}

func TestSummary(t *testing.T) {
	leads := fakeProspects{
		{ID: "n1", CreatedAt: now.Add(-time.Hour)},
		{ID: "n2", CreatedAt: now.Add(-6 * 24 * time.Hour)},
		{ID: "old", CreatedAt: now.Add(-8 * 24 * time.Hour)},
	}
	svc := NewService(fakeCatalog{products: []catalog.Product{{ID: "p1"}}}, leads, sampleOrders())
	svc.now = func() time.Time { return now }

	s, err := svc.Summary(context.Background(), i18n.Spanish)
	require.NoError(t, err)
	assert.Equal(t, Counts{Products: 1, Categories: 2, Brands: 1, Prospects: 3, Orders: 8}, s.Counts)
	assert.Equal(t, 2, s.NewProspectCount)
	require.Len(t, s.RecentOrders, 5)
	assert.Equal(t, "o8", s.RecentOrders[0].ID)
	require.Len(t, s.TopProducts, 1)
}

func TestSummaryPropagatesErrors(t *testing.T) {
	svc := NewService(fakeCatalog{err: errors.New("db down")}, fakeProspects{}, fakeOrders{})
	_, err := svc.Summary(context.Background(), i18n.Spanish)
	assert.Error(t, err)
}
