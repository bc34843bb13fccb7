package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

var _ ProductRepository = (*jsonProductRepository)(nil)

// jsonProductRepository stores records as an indented JSON array of flat objects.
type jsonProductRepository struct {
	path string
}

func NewJSONProductRepository(path string) ProductRepository {
	return &jsonProductRepository{path: path}
}

func (r *jsonProductRepository) Load(_ context.Context) (LoadResult, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("%w: %s", ErrNotExist, r.path)
		}
		return LoadResult{}, fmt.Errorf("read file: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raws == nil {
		return LoadResult{}, fmt.Errorf("%w: not a JSON array", ErrMalformed)
	}

	var result LoadResult
	for i, raw := range raws {
		rec, err := decodeRecord(raw)
		if err != nil {
			result.Rejected = append(result.Rejected, rejected(i, recordName(raw), err))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func (r *jsonProductRepository) Save(_ context.Context, records []model.ProductRecord) error {
	data, err := json.MarshalIndent(encodeRecords(records), "", "    ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
