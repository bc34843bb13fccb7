package repository

import (
	"context"
	"slices"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// MemoryProductRepository keeps records in process memory. It never reports
// ErrNotExist and is used for throwaway sessions and as a test double.
type MemoryProductRepository struct {
	records []model.ProductRecord
	saves   int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

func NewMemoryProductRepository(records ...model.ProductRecord) *MemoryProductRepository {
	return &MemoryProductRepository{records: slices.Clone(records)}
}

func (r *MemoryProductRepository) Load(_ context.Context) (LoadResult, error) {
	if r.LoadErr != nil {
		return LoadResult{}, r.LoadErr
	}
	return LoadResult{Records: slices.Clone(r.records)}, nil
}

func (r *MemoryProductRepository) Save(_ context.Context, records []model.ProductRecord) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.records = slices.Clone(records)
	r.saves++
	return nil
}

// Records returns a copy of the currently stored records.
func (r *MemoryProductRepository) Records() []model.ProductRecord {
	return slices.Clone(r.records)
}

// Saves returns how many times Save succeeded.
func (r *MemoryProductRepository) Saves() int {
	return r.saves
}
