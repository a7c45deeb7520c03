package catalogimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/istmoglobal/storefront/internal/catalog"
)

// Images assigned when the file leaves them blank.
const (
	DefaultProductImage = "https://picsum.photos/seed/tire/800/800"
	DefaultBrandImage   = "https://picsum.photos/seed/brand/800/800"
)

// Result summarizes a finished import.
type Result struct {
	Created int
	Failed  int
	Skipped int
}

// group collects the rows sharing a brand and model.
type group struct {
	key        string
	brand      string
	category   string
	categories []string
	product    catalog.Product
}

// Importer turns parsed rows into catalog products.
type Importer struct {
	store    catalog.Store
	progress ProgressStore
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewImporter constructs an importer. progress may be nil.
func NewImporter(store catalog.Store, progress ProgressStore, logger *slog.Logger) *Importer {
	return &Importer{
		store:    store,
		progress: progress,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run imports the CSV document data for job jobID, publishing progress as
// each product is written. A parse failure aborts the whole job.
func (im *Importer) Run(ctx context.Context, jobID string, data []byte) (Result, error) {
	state := Progress{JobID: jobID, Status: StatusRunning}
	im.publish(ctx, &state)

	rows, err := Parse(bytes.NewReader(data))
	if err != nil {
		state.Status = StatusFailed
		state.Error = err.Error()
		im.publish(ctx, &state)
		return Result{}, err
	}

	res, err := im.Import(ctx, rows, func(done, total int, res Result) {
		state.Progress = percent(done, total)
		state.Created = res.Created
		state.Failed = res.Failed
		state.Skipped = res.Skipped
		im.publish(ctx, &state)
	})
	state.Created = res.Created
	state.Failed = res.Failed
	state.Skipped = res.Skipped
	if err != nil {
		state.Status = StatusFailed
		state.Error = err.Error()
		im.publish(ctx, &state)
		return res, err
	}
	state.Status = StatusCompleted
	state.Progress = 100
	im.publish(ctx, &state)
	return res, nil
}

// Import writes rows to the store. Every product group runs in its own
// transaction together with the brands and categories it creates, so a
// failed group leaves nothing behind and the import moves on.
func (im *Importer) Import(ctx context.Context, rows []Row, onProgress func(done, total int, res Result)) (Result, error) {
	c, err := im.loadCache(ctx)
	if err != nil {
		return Result{}, err
	}
	groups, skipped := im.group(rows)
	res := Result{Skipped: skipped}
	total := len(groups)

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		pending := c.begin()
		err := im.store.WithTx(ctx, func(ctx context.Context, tx catalog.Store) error {
			return im.write(ctx, tx, pending, g)
		})
		if err != nil {
			res.Failed++
			im.logger.Error("catalog import group failed",
				slog.String("group", g.key),
				slog.Any("error", err))
		} else {
			pending.commit()
			res.Created++
		}
		if onProgress != nil {
			onProgress(i+1, total, res)
		}
	}
	return res, nil
}

func (im *Importer) write(ctx context.Context, tx catalog.Store, c *pendingCache, g group) error {
	brandID, err := im.resolveBrand(ctx, tx, c, g.brand)
	if err != nil {
		return fmt.Errorf("brand %q: %w", g.brand, err)
	}
	for _, name := range g.categories {
		if _, err := im.resolveCategory(ctx, tx, c, name); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
	}

	p := g.product
	p.ID = im.newID()
	p.BrandID = brandID
	if id, ok := c.category(g.category); ok {
		p.CategoryID = id
	} else {
		p.CategoryID = c.firstCategory()
	}
	now := im.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncDefault()
	return tx.CreateProduct(ctx, p)
}

func (im *Importer) resolveBrand(ctx context.Context, tx catalog.Store, c *pendingCache, name string) (string, error) {
	if id, ok := c.brand(name); ok {
		return id, nil
	}
	image := DefaultBrandImage
	b := catalog.Brand{ID: im.newID(), Name: name, Image: &image, CreatedAt: im.now().UTC()}
	if err := tx.CreateBrand(ctx, b); err != nil {
		return "", err
	}
	c.addBrand(name, b.ID)
	return b.ID, nil
}

func (im *Importer) resolveCategory(ctx context.Context, tx catalog.Store, c *pendingCache, name string) (string, error) {
	if id, ok := c.category(name); ok {
		return id, nil
	}
	cat := catalog.Category{ID: im.newID(), Name: name, CreatedAt: im.now().UTC()}
	if err := tx.CreateCategory(ctx, cat); err != nil {
		return "", err
	}
	c.addCategory(name, cat.ID)
	return cat.ID, nil
}

// group buckets rows by brand and model in first seen order. Rows without
// a brand are skipped.
func (im *Importer) group(rows []Row) ([]group, int) {
	groups := make([]group, 0)
	index := make(map[string]int)
	skipped := 0
	for _, row := range rows {
		brand := strings.TrimSpace(row.Brand)
		if brand == "" {
			skipped++
			continue
		}
		category := strings.TrimSpace(row.Category)
		key := brand + "-" + strings.TrimSpace(row.Model)

		i, ok := index[key]
		if !ok {
			image := row.Image
			if strings.TrimSpace(image) == "" {
				image = DefaultProductImage
			}
			groups = append(groups, group{
				key:      key,
				brand:    brand,
				category: category,
				product: catalog.Product{
					Name:           strings.TrimSpace(row.Model),
					Description:    strings.TrimSpace(row.Description),
					Status:         catalog.StatusActive,
					Image:          strings.TrimSpace(image),
					TechSheetImage: strings.TrimSpace(row.TechSheet),
					Variants:       []catalog.Variant{},
				},
			})
			i = len(groups) - 1
			index[key] = i
		}
		g := &groups[i]
		if category != "" && !containsFold(g.categories, category) {
			g.categories = append(g.categories, category)
		}

		size := strings.TrimSpace(row.Size)
		price := strings.TrimSpace(row.Price)
		if size != "" && price != "" {
			g.product.Variants = append(g.product.Variants, catalog.Variant{
				ID:     im.newID(),
				Size:   size,
				Price:  parsePrice(price),
				Status: catalog.StatusActive,
			})
		}
	}
	return groups, skipped
}

// parsePrice reads a single precision price rounded to cents, the precision
// of the price columns. Unparseable input is zero.
func parsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func (im *Importer) publish(ctx context.Context, p *Progress) {
	if im.progress == nil {
		return
	}
	p.UpdatedAt = im.now().UTC()
	if err := im.progress.Save(ctx, *p); err != nil && !errors.Is(err, context.Canceled) {
		im.logger.Warn("catalog import progress", slog.String("job", p.JobID), slog.Any("error", err))
	}
}
