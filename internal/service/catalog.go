package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/repository"
)

// LoadReport describes what happened while loading the catalog.
type LoadReport struct {
	Loaded  int
	Skipped []repository.RejectedRecord
	// Missing is set when nothing was persisted yet.
	Missing bool
	// Malformed is set when the persisted content was unreadable and the
	// catalog started empty.
	Malformed bool
}

// Catalog is the ordered, in-memory collection of products backed by a
// ProductRepository. It is not safe for concurrent use.
type Catalog struct {
	logger   *slog.Logger
	repo     repository.ProductRepository
	now      func() time.Time
	products []model.Product
}

type CatalogOption func(*Catalog)

// WithClock overrides the clock used to determine today's date.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *Catalog) {
		c.now = now
	}
}

func NewCatalog(logger *slog.Logger, repo repository.ProductRepository, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		logger: logger.With(slog.String("service", "catalog")),
		repo:   repo,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory products with the persisted ones. Records that
// fail validation are skipped and reported. A missing or malformed store
// leaves the catalog empty and is not an error.
func (c *Catalog) Load(ctx context.Context) (LoadReport, error) {
	c.products = nil

	result, err := c.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotExist):
		c.logger.InfoContext(ctx, "no persisted products, starting empty")
		return LoadReport{Missing: true}, nil
	case errors.Is(err, repository.ErrMalformed):
		c.logger.WarnContext(ctx, "persisted products are malformed, starting empty", slog.Any("error", err))
		return LoadReport{Malformed: true}, nil
	case err != nil:
		return LoadReport{}, fmt.Errorf("product repository load: %w", err)
	}

	var report LoadReport
	records, rejected := result.Records, result.Rejected
	// Walk stored positions so skipped records are reported in stored order.
	for pos := 0; len(records) > 0 || len(rejected) > 0; pos++ {
		if len(rejected) > 0 && rejected[0].Index <= pos {
			report.Skipped = append(report.Skipped, rejected[0])
			rejected = rejected[1:]
			continue
		}
		if len(records) == 0 {
			report.Skipped = append(report.Skipped, rejected...)
			break
		}

		rec := records[0]
		records = records[1:]
		p, err := model.NewProduct(rec)
		if err != nil {
			report.Skipped = append(report.Skipped, repository.RejectedRecord{Index: pos, Name: rec.Name, Err: err})
			continue
		}
		c.products = append(c.products, p)
	}
	report.Loaded = len(c.products)

	for _, skipped := range report.Skipped {
		c.logger.WarnContext(ctx, "skipping invalid product record",
			slog.String("name", skipped.Name),
			slog.Any("error", skipped.Err),
		)
	}

	c.logger.InfoContext(ctx, "products loaded",
		slog.Int("loaded", report.Loaded),
		slog.Int("skipped", len(report.Skipped)),
	)

	return report, nil
}

// Save persists every product in order. On failure the in-memory state is kept.
func (c *Catalog) Save(ctx context.Context) error {
	records := make([]model.ProductRecord, 0, len(c.products))
	for _, p := range c.products {
		records = append(records, p.Record())
	}

	if err := c.repo.Save(ctx, records); err != nil {
		c.logger.ErrorContext(ctx, "error saving products", slog.Any("error", err))
		return apperr.SaveErr.WrapParent(err)
	}

	return nil
}

// Add appends p and saves the catalog. A save failure does not undo the append.
func (c *Catalog) Add(ctx context.Context, p model.Product) error {
	c.products = append(c.products, p)
	c.logger.DebugContext(ctx, "product added", slog.String("name", p.Name()))

	if err := c.Save(ctx); err != nil {
		return fmt.Errorf("save after add: %w", err)
	}

	return nil
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// ListAll returns every product in insertion order.
func (c *Catalog) ListAll() []model.Product {
	return slices.Clone(c.products)
}

// FilterByMaxPrice returns the products whose discount price is at most maxPrice.
func (c *Catalog) FilterByMaxPrice(maxPrice float64) []model.Product {
	return c.filter(func(p model.Product) bool {
		return p.DiscountPrice() <= maxPrice
	})
}

// FilterNearExpiry returns the products expiring within withinDays days from
// today, excluding those already expired.
func (c *Catalog) FilterNearExpiry(withinDays int) []model.Product {
	today := c.Today()
	return c.filter(func(p model.Product) bool {
		return p.IsNearExpiry(today, withinDays)
	})
}

// Today returns the current local date according to the catalog's clock.
func (c *Catalog) Today() civil.Date {
	return civil.DateOf(c.now())
}

func (c *Catalog) filter(keep func(model.Product) bool) []model.Product {
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
