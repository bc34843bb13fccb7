package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/storage/db"
)

var _ ProductRepository = (*sqliteProductRepository)(nil)

// sqliteProductRepository stores records in the products table of a SQLite file,
// ordered by position.
type sqliteProductRepository struct {
	path string
}

func NewSQLiteProductRepository(path string) ProductRepository {
	return &sqliteProductRepository{path: path}
}

func (r *sqliteProductRepository) Load(ctx context.Context) (LoadResult, error) {
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("%w: %s", ErrNotExist, r.path)
		}
		return LoadResult{}, fmt.Errorf("stat file: %w", err)
	}

	var result LoadResult
	err := r.withClient(ctx, func(client db.DB) error {
		rows, err := client.QueryContext(ctx, `
			SELECT name, original_price, discount_price, expiry_date, quantity
			FROM products
			ORDER BY position
		`)
		if err != nil {
			return fmt.Errorf("query products: %w", err)
		}
		defer rows.Close()

		for i := 0; rows.Next(); i++ {
			var rec model.ProductRecord
			if err := rows.Scan(
				&rec.Name,
				&rec.OriginalPrice,
				&rec.DiscountPrice,
				&rec.ExpiryDate,
				&rec.Quantity,
			); err != nil {
				result.Rejected = append(result.Rejected, rejected(i, rec.Name, fmt.Errorf("scan product: %w", err)))
				continue
			}
			result.Records = append(result.Records, rec)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate products: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	return result, nil
}

func (r *sqliteProductRepository) Save(ctx context.Context, records []model.ProductRecord) error {
	return r.withClient(ctx, func(client db.DB) error {
		return client.WithTx(ctx, func(tx db.DB) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
				return fmt.Errorf("delete products: %w", err)
			}

			for i, rec := range records {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO products (position, name, original_price, discount_price, expiry_date, quantity)
					VALUES (?, ?, ?, ?, ?, ?)
				`, i, rec.Name, rec.OriginalPrice, rec.DiscountPrice, rec.ExpiryDate, rec.Quantity); err != nil {
					return fmt.Errorf("insert product %q: %w", rec.Name, err)
				}
			}

			return nil
		})
	})
}

// withClient opens the database, ensures the schema and runs fn.
func (r *sqliteProductRepository) withClient(ctx context.Context, fn func(client db.DB) error) error {
	client, err := db.OpenSQLite(ctx, r.path)
	if err != nil {
		if db.IsNotADatabase(err) {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return fmt.Errorf("open database: %w", err)
	}
	defer client.Close()

	if err := client.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return fn(client)
}
