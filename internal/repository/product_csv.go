package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

var _ ProductRepository = (*csvProductRepository)(nil)

// csvRow keeps every column as text so one bad cell only rejects its own row.
type csvRow struct {
	Name          string `csv:"name"`
	OriginalPrice string `csv:"originalPrice"`
	DiscountPrice string `csv:"discountPrice"`
	ExpiryDate    string `csv:"expiryDate"`
	Quantity      string `csv:"quantity"`
}

// csvProductRepository stores records as a CSV file with a header row.
type csvProductRepository struct {
	path string
}

func NewCSVProductRepository(path string) ProductRepository {
	return &csvProductRepository{path: path}
}

func (r *csvProductRepository) Load(_ context.Context) (LoadResult, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("%w: %s", ErrNotExist, r.path)
		}
		return LoadResult{}, fmt.Errorf("read file: %w", err)
	}

	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var result LoadResult
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			result.Rejected = append(result.Rejected, rejected(i, row.Name, err))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func (r *csvProductRepository) Save(_ context.Context, records []model.ProductRecord) error {
	rows := make([]csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, csvRow{
			Name:          rec.Name,
			OriginalPrice: cast.ToString(rec.OriginalPrice),
			DiscountPrice: cast.ToString(rec.DiscountPrice),
			ExpiryDate:    rec.ExpiryDate,
			Quantity:      cast.ToString(rec.Quantity),
		})
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := writeFileAtomic(r.path, []byte(data)); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func (row csvRow) record() (model.ProductRecord, error) {
	originalPrice, err := cast.ToFloat64E(row.OriginalPrice)
	if err != nil {
		return model.ProductRecord{}, fmt.Errorf("parse originalPrice: %w", err)
	}
	discountPrice, err := cast.ToFloat64E(row.DiscountPrice)
	if err != nil {
		return model.ProductRecord{}, fmt.Errorf("parse discountPrice: %w", err)
	}
	quantity, err := strconv.Atoi(row.Quantity)
	if err != nil {
		return model.ProductRecord{}, fmt.Errorf("parse quantity: %w", err)
	}

	return model.ProductRecord{
		Name:          row.Name,
		OriginalPrice: originalPrice,
		DiscountPrice: discountPrice,
		ExpiryDate:    row.ExpiryDate,
		Quantity:      quantity,
	}, nil
}
