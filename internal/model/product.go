package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/validator"
)

// DateLayout is the layout of persisted and user-entered expiry dates.
const DateLayout = "2006-01-02"

// DefaultNearExpiryDays is the near-expiry window used when none is configured.
const DefaultNearExpiryDays = 7

var productValidator = validator.MustNew()

// ProductRecord is the flat, persisted form of a Product. It is also the
// input to NewProduct.
type ProductRecord struct {
	Name          string  `json:"name" csv:"name" validate:"required,notblank"`
	OriginalPrice float64 `json:"originalPrice" csv:"originalPrice" validate:"finite,gt=0"`
	DiscountPrice float64 `json:"discountPrice" csv:"discountPrice" validate:"finite,gte=0,ltefield=OriginalPrice"`
	ExpiryDate    string  `json:"expiryDate" csv:"expiryDate" validate:"required,datetime=2006-01-02"`
	Quantity      int     `json:"quantity" csv:"quantity" validate:"gte=0"`
}

// Product is a discounted perishable item. The zero value is not valid;
// use NewProduct.
type Product struct {
	name          string
	originalPrice float64
	discountPrice float64
	expiryDate    civil.Date
	quantity      int
}

// NewProduct validates rec and builds an immutable Product from it.
// Validation failures are returned as apperr.ValidationErr listing every
// violated field.
func NewProduct(rec ProductRecord) (Product, error) {
	if err := productValidator.Validate(rec); err != nil {
		msgs := validator.Messages(err)
		if len(msgs) == 0 {
			return Product{}, fmt.Errorf("validate product: %w", err)
		}
		return Product{}, apperr.ValidationErr.WithMsg("invalid product: " + strings.Join(msgs, "; "))
	}

	expiry, err := civil.ParseDate(rec.ExpiryDate)
	if err != nil {
		return Product{}, apperr.ValidationErr.
			WithMsg(fmt.Sprintf("invalid product: expiryDate %q is not a valid date", rec.ExpiryDate)).
			WrapParent(err)
	}

	return Product{
		name:          rec.Name,
		originalPrice: rec.OriginalPrice,
		discountPrice: rec.DiscountPrice,
		expiryDate:    expiry,
		quantity:      rec.Quantity,
	}, nil
}

func (p Product) Name() string           { return p.name }
func (p Product) OriginalPrice() float64 { return p.originalPrice }
func (p Product) DiscountPrice() float64 { return p.discountPrice }
func (p Product) ExpiryDate() civil.Date { return p.expiryDate }
func (p Product) Quantity() int          { return p.quantity }

// Record returns the persisted form of p.
func (p Product) Record() ProductRecord {
	return ProductRecord{
		Name:          p.name,
		OriginalPrice: p.originalPrice,
		DiscountPrice: p.discountPrice,
		ExpiryDate:    p.expiryDate.String(),
		Quantity:      p.quantity,
	}
}

// DiscountPercent returns the relative reduction from the original price, 0-100.
func (p Product) DiscountPercent() float64 {
	if p.originalPrice <= 0 {
		return 0
	}
	return (p.originalPrice - p.discountPrice) / p.originalPrice * 100
}

// IsNearExpiry reports whether p expires between today and withinDays days
// from today, both inclusive. Products already past their expiry date are
// not near expiry.
func (p Product) IsNearExpiry(today civil.Date, withinDays int) bool {
	diff := p.expiryDate.DaysSince(today)
	return diff >= 0 && diff <= withinDays
}

func (p Product) String() string {
	return fmt.Sprintf("%s - Original price: $%.2f, Discount price: $%.2f (%.2f%% off), Expiry: %02d/%02d/%04d, Quantity: %d",
		p.name,
		p.originalPrice,
		p.discountPrice,
		p.DiscountPercent(),
		p.expiryDate.Day, int(p.expiryDate.Month), p.expiryDate.Year,
		p.quantity,
	)
}

// DiscountedPrice applies a percentage discount to originalPrice.
func DiscountedPrice(originalPrice, percent float64) float64 {
	return originalPrice * (1 - percent/100)
}
