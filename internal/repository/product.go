package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/config"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

var (
	// ErrNotExist is returned by Load when nothing has been persisted yet.
	ErrNotExist = errors.New("product store does not exist")
	// ErrMalformed is returned by Load when the persisted content cannot be read as a record list.
	ErrMalformed = errors.New("product store is malformed")
)

// RejectedRecord is a persisted record that could not be decoded or validated.
type RejectedRecord struct {
	// Index is the record's zero-based position in the store.
	Index int
	// Name is the record's name if it could be recovered, "unknown" otherwise.
	Name string
	Err  error
}

// LoadResult partitions the stored records. Records and Rejected are each in
// stored order; Rejected entries carry their position.
type LoadResult struct {
	Records  []model.ProductRecord
	Rejected []RejectedRecord
}

type ProductRepository interface {
	// Load returns every persisted record in stored order.
	Load(ctx context.Context) (LoadResult, error)
	// Save replaces the persisted records with records.
	Save(ctx context.Context, records []model.ProductRecord) error
}

// NewProductRepository returns the repository selected by cfg.Driver.
func NewProductRepository(cfg config.Store) (ProductRepository, error) {
	switch cfg.Driver {
	case config.StoreDriverJSON:
		return NewJSONProductRepository(cfg.FilePath()), nil
	case config.StoreDriverCSV:
		return NewCSVProductRepository(cfg.FilePath()), nil
	case config.StoreDriverBolt:
		return NewBoltProductRepository(cfg.FilePath()), nil
	case config.StoreDriverSQLite:
		return NewSQLiteProductRepository(cfg.FilePath()), nil
	case config.StoreDriverMemory:
		return NewMemoryProductRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

const unknownName = "unknown"

func rejected(index int, name string, err error) RejectedRecord {
	if name == "" {
		name = unknownName
	}
	return RejectedRecord{Index: index, Name: name, Err: err}
}
