package shell_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/repository"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/service"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/shell"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/validator"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCatalog(t *testing.T, repo repository.ProductRepository) *service.Catalog {
	t.Helper()
	c := service.NewCatalog(discardLogger(), repo, service.WithClock(func() time.Time { return fixedNow }))
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c
}

func newDispatcher(c shell.Catalog) *shell.Dispatcher {
	return shell.NewDispatcher(discardLogger(), c, validator.MustNew())
}

func seed() []model.ProductRecord {
	return []model.ProductRecord{
		{Name: "Milk", OriginalPrice: 10, DiscountPrice: 8, ExpiryDate: "2026-10-18", Quantity: 4},
		{Name: "Cheese", OriginalPrice: 30, DiscountPrice: 25, ExpiryDate: "2026-12-01", Quantity: 2},
		{Name: "Bread", OriginalPrice: 6, DiscountPrice: 3, ExpiryDate: "2026-10-15", Quantity: 1},
	}
}

func productNames(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name())
	}
	return out
}

func TestDispatcher_AddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should compute the discounted price from a percentage", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		c := newCatalog(t, repo)

		res, err := newDispatcher(c).Dispatch(ctx, shell.AddProductCommand{
			Name:          "Yogurt",
			OriginalPrice: 20,
			Mode:          shell.DiscountModePercent,
			DiscountValue: 15,
			ExpiryDate:    "2026-10-20",
			Quantity:      5,
		})
		require.NoError(t, err)

		assert.Equal(t, "Product 'Yogurt' added successfully!", res.Message)
		assert.Empty(t, res.Warning)
		require.Equal(t, 1, c.Len())
		assert.InDelta(t, 17.0, c.ListAll()[0].DiscountPrice(), 1e-9)
		assert.Equal(t, 1, repo.Saves())
	})

	t.Run("Should use a fixed discounted price as is", func(t *testing.T) {
		c := newCatalog(t, repository.NewMemoryProductRepository())

		_, err := newDispatcher(c).Dispatch(ctx, shell.AddProductCommand{
			Name:          "Yogurt",
			OriginalPrice: 20,
			Mode:          shell.DiscountModeFixed,
			DiscountValue: 12.5,
			ExpiryDate:    "2026-10-20",
			Quantity:      5,
		})
		require.NoError(t, err)
		assert.Equal(t, 12.5, c.ListAll()[0].DiscountPrice())
	})

	t.Run("Should reject invalid products without touching the catalog", func(t *testing.T) {
		testCases := []struct {
			name string
			cmd  shell.AddProductCommand
			msg  string
		}{
			{
				name: "discount above original",
				cmd:  shell.AddProductCommand{Name: "Tea", OriginalPrice: 5, Mode: shell.DiscountModeFixed, DiscountValue: 6, ExpiryDate: "2026-10-20"},
				msg:  "discountPrice must be less than or equal to originalPrice",
			},
			{
				name: "percentage above one hundred",
				cmd:  shell.AddProductCommand{Name: "Tea", OriginalPrice: 5, Mode: shell.DiscountModePercent, DiscountValue: 120, ExpiryDate: "2026-10-20"},
				msg:  "discountPrice must be greater than or equal to 0",
			},
			{
				name: "blank name",
				cmd:  shell.AddProductCommand{Name: "  ", OriginalPrice: 5, Mode: shell.DiscountModeFixed, DiscountValue: 1, ExpiryDate: "2026-10-20"},
				msg:  "name must not be blank",
			},
			{
				name: "bad date",
				cmd:  shell.AddProductCommand{Name: "Tea", OriginalPrice: 5, Mode: shell.DiscountModeFixed, DiscountValue: 1, ExpiryDate: "20/10/2026"},
				msg:  "expiryDate must be a valid date in the format YYYY-MM-DD",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				repo := repository.NewMemoryProductRepository()
				c := newCatalog(t, repo)

				_, err := newDispatcher(c).Dispatch(ctx, tc.cmd)
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ValidationErr)
				assert.Contains(t, apperr.Message(err), tc.msg)
				assert.Zero(t, c.Len())
				assert.Zero(t, repo.Saves())
			})
		}
	})

	t.Run("Should report a save failure as a warning", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		repo.SaveErr = errors.New("disk full")
		c := newCatalog(t, repo)

		res, err := newDispatcher(c).Dispatch(ctx, shell.AddProductCommand{
			Name:          "Yogurt",
			OriginalPrice: 20,
			Mode:          shell.DiscountModeFixed,
			DiscountValue: 10,
			ExpiryDate:    "2026-10-20",
			Quantity:      1,
		})
		require.NoError(t, err)
		assert.Equal(t, "Error saving products.", res.Warning)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Should reject an unknown discount mode", func(t *testing.T) {
		c := newCatalog(t, repository.NewMemoryProductRepository())

		_, err := newDispatcher(c).Dispatch(ctx, shell.AddProductCommand{Name: "Tea", Mode: "coupon"})
		assert.ErrorIs(t, err, apperr.InvalidInputErr)
		assert.Equal(t, "mode invalid enum value: coupon", apperr.Message(err))
	})
}

type unknownCommand struct {
	shell.ListCommand
}

func TestDispatcher_UnsupportedCommand(t *testing.T) {
	d := newDispatcher(newCatalog(t, repository.NewMemoryProductRepository()))

	_, err := d.Dispatch(context.Background(), unknownCommand{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.InternalErr)
	assert.Equal(t, "unsupported command shell_test.unknownCommand", apperr.Message(err))
}

func TestDispatcher_Listings(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(newCatalog(t, repository.NewMemoryProductRepository(seed()...)))

	t.Run("Should list every product in insertion order", func(t *testing.T) {
		res, err := d.Dispatch(ctx, shell.ListCommand{})
		require.NoError(t, err)
		assert.Equal(t, "Discounted Products", res.Title)
		assert.Equal(t, []string{"Milk", "Cheese", "Bread"}, productNames(res.Products))
	})

	t.Run("Should filter by maximum discounted price", func(t *testing.T) {
		res, err := d.Dispatch(ctx, shell.FilterByPriceCommand{MaxPrice: 8})
		require.NoError(t, err)
		assert.Equal(t, "Products priced up to $8.00", res.Title)
		assert.Equal(t, []string{"Milk", "Bread"}, productNames(res.Products))

		res, err = d.Dispatch(ctx, shell.FilterByPriceCommand{MaxPrice: 1})
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, "No products found priced up to $1.00.", res.Empty)
	})

	t.Run("Should list products near expiry", func(t *testing.T) {
		res, err := d.Dispatch(ctx, shell.NearExpiryCommand{WithinDays: 7})
		require.NoError(t, err)
		assert.Equal(t, "Products Near Expiry (within 7 days)", res.Title)
		assert.Equal(t, []string{"Milk"}, productNames(res.Products))
	})

	t.Run("Should reject a negative window", func(t *testing.T) {
		_, err := d.Dispatch(ctx, shell.NearExpiryCommand{WithinDays: -1})
		assert.ErrorIs(t, err, apperr.InvalidInputErr)
	})

	t.Run("Should describe an empty catalog", func(t *testing.T) {
		empty := newDispatcher(newCatalog(t, repository.NewMemoryProductRepository()))

		res, err := empty.Dispatch(ctx, shell.ListCommand{})
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, "No discounted products available at the moment.", res.Empty)
	})
}
