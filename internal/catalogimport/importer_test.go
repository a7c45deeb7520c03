package catalogimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/catalog/catalogtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProgress(t *testing.T) *RedisProgress {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisProgress(client)
}

const sampleCSV = `Marca,Modelo,Categoria,Descripcion,Medida,Precio,ImagenURL,FichaTecnicaURL
Michelin,Pilot Sport,Passenger,Sport tire,205/55R16,120.50,,
michelin,Pilot Sport,,,225/45R17,150,,
Pirelli,Scorpion,SUV,,265/70R16,,https://img/scorpion.png,https://img/sheet.png
,Orphan,Passenger,,195/65R15,80,,
`

func TestImportGroupsRowsIntoProducts(t *testing.T) {
	store := catalogtest.NewMemory()
	im := NewImporter(store, nil, discardLogger())

	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var ticks []int
	res, err := im.Import(context.Background(), rows, func(done, total int, _ Result) {
		ticks = append(ticks, percent(done, total))
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3, Skipped: 1}, res)
	assert.Equal(t, []int{33, 67, 100}, ticks)

	brands := store.Brands()
	require.Len(t, brands, 2)
	assert.Equal(t, "Michelin", brands[0].Name)
	require.NotNil(t, brands[0].Image)
	assert.Equal(t, DefaultBrandImage, *brands[0].Image)

	categories := store.Categories()
	require.Len(t, categories, 2)

	products := store.Products()
	require.Len(t, products, 3)

	pilot := products[0]
	assert.Equal(t, "Pilot Sport", pilot.Name)
	assert.Equal(t, brands[0].ID, pilot.BrandID)
	assert.Equal(t, DefaultProductImage, pilot.Image)
	require.Len(t, pilot.Variants, 1)
	assert.Equal(t, "205/55R16", pilot.Size)
	assert.Equal(t, 120.5, pilot.Price)

	// Brand grouping is case sensitive while brand resolution is not.
	second := products[1]
	assert.Equal(t, brands[0].ID, second.BrandID)
	assert.Equal(t, "225/45R17", second.Size)
	assert.Equal(t, pilot.CategoryID, second.CategoryID, "falls back to the first known category")

	scorpion := products[2]
	assert.Empty(t, scorpion.Variants, "variant needs both size and price")
	assert.Empty(t, scorpion.Size)
	assert.Equal(t, "https://img/scorpion.png", scorpion.Image)
	assert.Equal(t, "https://img/sheet.png", scorpion.TechSheetImage)
}

func TestImportReusesExistingEntities(t *testing.T) {
	store := catalogtest.NewMemory()
	svc := catalog.NewService(store)
	ctx := context.Background()
	brand, err := svc.CreateBrand(ctx, catalog.BrandInput{Name: "MICHELIN"})
	require.NoError(t, err)
	cat, err := svc.CreateCategory(ctx, catalog.CategoryInput{Name: "passenger"})
	require.NoError(t, err)

	im := NewImporter(store, nil, discardLogger())
	rows := []Row{{Brand: "Michelin", Model: "Primacy", Category: "Passenger", Size: "A", Price: "10"}}
	res, err := im.Import(ctx, rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	assert.Len(t, store.Brands(), 1)
	assert.Len(t, store.Categories(), 1)
	p := store.Products()[0]
	assert.Equal(t, brand.ID, p.BrandID)
	assert.Equal(t, cat.ID, p.CategoryID)
}

func TestImportFailedGroupLeavesNoOrphans(t *testing.T) {
	store := catalogtest.NewMemory()
	store.FailCreateProduct = func(p catalog.Product) error {
		if p.Name == "Broken" {
			return errors.New("insert failed")
		}
		return nil
	}
	im := NewImporter(store, nil, discardLogger())
	rows := []Row{
		{Brand: "Ghost", Model: "Broken", Category: "Phantom", Size: "A", Price: "1"},
		{Brand: "Pirelli", Model: "P Zero", Category: "Sport", Size: "B", Price: "2"},
	}
	res, err := im.Import(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Failed: 1}, res)

	brands := store.Brands()
	require.Len(t, brands, 1)
	assert.Equal(t, "Pirelli", brands[0].Name)
	categories := store.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, "Sport", categories[0].Name)
}

func TestImportRetriesEntityAfterRollback(t *testing.T) {
	store := catalogtest.NewMemory()
	calls := 0
	store.FailCreateProduct = func(catalog.Product) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}
	im := NewImporter(store, nil, discardLogger())
	rows := []Row{
		{Brand: "Ghost", Model: "One", Size: "A", Price: "1"},
		{Brand: "Ghost", Model: "Two", Size: "B", Price: "2"},
	}
	res, err := im.Import(context.Background(), rows, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Failed: 1}, res)
	require.Len(t, store.Brands(), 1)
	assert.Equal(t, store.Brands()[0].ID, store.Products()[0].BrandID)
}

func TestRunPublishesProgress(t *testing.T) {
	progress := newProgress(t)
	store := catalogtest.NewMemory()
	im := NewImporter(store, progress, discardLogger())

	res, err := im.Run(context.Background(), "job-1", []byte(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	state, err := progress.Load(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.Equal(t, 3, state.Created)
	assert.Equal(t, 1, state.Skipped)
}

func TestRunParseFailureMarksJobFailed(t *testing.T) {
	progress := newProgress(t)
	store := catalogtest.NewMemory()
	im := NewImporter(store, progress, discardLogger())

	_, err := im.Run(context.Background(), "job-2", []byte("Marca,Modelo\nMi\"chelin,x\n"))
	require.ErrorIs(t, err, ErrMalformed)

	state, err := progress.Load(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, state.Status)
	assert.NotEmpty(t, state.Error)
	assert.Empty(t, store.Products())
}

func TestProgressUnknownJob(t *testing.T) {
	_, err := newProgress(t).Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
