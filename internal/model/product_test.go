package model_test

import (
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

func validRecord() model.ProductRecord {
	return model.ProductRecord{
		Name:          "Whole milk 1L",
		OriginalPrice: 12.50,
		DiscountPrice: 10.00,
		ExpiryDate:    "2026-10-20",
		Quantity:      3,
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("Should create product from valid record", func(t *testing.T) {
		p, err := model.NewProduct(validRecord())
		require.NoError(t, err)

		assert.Equal(t, "Whole milk 1L", p.Name())
		assert.Equal(t, 12.50, p.OriginalPrice())
		assert.Equal(t, 10.00, p.DiscountPrice())
		assert.Equal(t, civil.Date{Year: 2026, Month: 10, Day: 20}, p.ExpiryDate())
		assert.Equal(t, 3, p.Quantity())
		assert.Equal(t, validRecord(), p.Record())
	})

	t.Run("Should accept boundary values", func(t *testing.T) {
		rec := validRecord()
		rec.DiscountPrice = 0
		rec.Quantity = 0
		_, err := model.NewProduct(rec)
		assert.NoError(t, err)

		rec.DiscountPrice = rec.OriginalPrice
		_, err = model.NewProduct(rec)
		assert.NoError(t, err)
	})

	testCases := []struct {
		name    string
		mutate  func(r *model.ProductRecord)
		wantMsg string
	}{
		{
			name:    "discount above original",
			mutate:  func(r *model.ProductRecord) { r.DiscountPrice = 12.51 },
			wantMsg: "invalid product: discountPrice must be less than or equal to originalPrice",
		},
		{
			name:    "zero original price",
			mutate:  func(r *model.ProductRecord) { r.OriginalPrice, r.DiscountPrice = 0, 0 },
			wantMsg: "invalid product: originalPrice must be greater than 0",
		},
		{
			name:    "negative discount",
			mutate:  func(r *model.ProductRecord) { r.DiscountPrice = -0.01 },
			wantMsg: "invalid product: discountPrice must be greater than or equal to 0",
		},
		{
			name:    "negative quantity",
			mutate:  func(r *model.ProductRecord) { r.Quantity = -1 },
			wantMsg: "invalid product: quantity must be greater than or equal to 0",
		},
		{
			name:    "unparsable date",
			mutate:  func(r *model.ProductRecord) { r.ExpiryDate = "2026-02-30" },
			wantMsg: "invalid product: expiryDate must be a valid date in the format YYYY-MM-DD",
		},
		{
			name:    "blank name",
			mutate:  func(r *model.ProductRecord) { r.Name = " " },
			wantMsg: "invalid product: name must not be blank",
		},
		{
			name:    "nan discount",
			mutate:  func(r *model.ProductRecord) { r.DiscountPrice = math.NaN() },
			wantMsg: "invalid product: discountPrice must be a finite number",
		},
	}

	for _, tc := range testCases {
		t.Run("Should fail on "+tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			_, err := model.NewProduct(rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ValidationErr)
			assert.Equal(t, tc.wantMsg, apperr.Message(err))
		})
	}

	t.Run("Should report every violated field", func(t *testing.T) {
		rec := validRecord()
		rec.Name = ""
		rec.Quantity = -5

		_, err := model.NewProduct(rec)
		require.Error(t, err)
		assert.Equal(t, "invalid product: name is required; quantity must be greater than or equal to 0", apperr.Message(err))
	})
}

func TestProduct_DiscountPercent(t *testing.T) {
	t.Run("Should compute relative reduction", func(t *testing.T) {
		p, err := model.NewProduct(validRecord())
		require.NoError(t, err)
		assert.InDelta(t, 20.0, p.DiscountPercent(), 1e-9)
	})

	t.Run("Should stay within 0 and 100 for valid products", func(t *testing.T) {
		for _, prices := range [][2]float64{{1, 0}, {1, 1}, {0.01, 0.005}, {99.99, 33.33}, {1e9, 1}} {
			rec := validRecord()
			rec.OriginalPrice, rec.DiscountPrice = prices[0], prices[1]

			p, err := model.NewProduct(rec)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p.DiscountPercent(), 0.0)
			assert.LessOrEqual(t, p.DiscountPercent(), 100.0)
		}
	})

	t.Run("Should return zero for the zero value", func(t *testing.T) {
		assert.Equal(t, 0.0, model.Product{}.DiscountPercent())
	})
}

func TestProduct_IsNearExpiry(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 10, Day: 16}

	testCases := []struct {
		diff int
		want bool
	}{
		{diff: -1, want: false},
		{diff: 0, want: true},
		{diff: 1, want: true},
		{diff: 7, want: true},
		{diff: 8, want: false},
	}

	for _, tc := range testCases {
		rec := validRecord()
		rec.ExpiryDate = today.AddDays(tc.diff).String()

		p, err := model.NewProduct(rec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.IsNearExpiry(today, model.DefaultNearExpiryDays), "diff=%d", tc.diff)
	}

	t.Run("Should honour a custom window", func(t *testing.T) {
		rec := validRecord()
		rec.ExpiryDate = today.AddDays(3).String()

		p, err := model.NewProduct(rec)
		require.NoError(t, err)
		assert.True(t, p.IsNearExpiry(today, 3))
		assert.False(t, p.IsNearExpiry(today, 2))
	})
}

func TestProduct_String(t *testing.T) {
	p, err := model.NewProduct(validRecord())
	require.NoError(t, err)

	assert.Equal(t,
		"Whole milk 1L - Original price: $12.50, Discount price: $10.00 (20.00% off), Expiry: 20/10/2026, Quantity: 3",
		p.String(),
	)
}

func TestDiscountedPrice(t *testing.T) {
	assert.InDelta(t, 7.5, model.DiscountedPrice(10, 25), 1e-9)
	assert.Equal(t, 10.0, model.DiscountedPrice(10, 0))
	assert.Equal(t, 0.0, model.DiscountedPrice(10, 100))
	assert.Less(t, model.DiscountedPrice(10, 150), 0.0)
}
