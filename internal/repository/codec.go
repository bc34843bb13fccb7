package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/ptr"
)

// jsonRecord mirrors model.ProductRecord with pointer fields so that absent
// keys can be told apart from zero values.
type jsonRecord struct {
	Name          *string  `json:"name"`
	OriginalPrice *float64 `json:"originalPrice"`
	DiscountPrice *float64 `json:"discountPrice"`
	ExpiryDate    *string  `json:"expiryDate"`
	Quantity      *int     `json:"quantity"`
}

func encodeRecord(rec model.ProductRecord) jsonRecord {
	return jsonRecord{
		Name:          ptr.New(rec.Name),
		OriginalPrice: ptr.New(rec.OriginalPrice),
		DiscountPrice: ptr.New(rec.DiscountPrice),
		ExpiryDate:    ptr.New(rec.ExpiryDate),
		Quantity:      ptr.New(rec.Quantity),
	}
}

func encodeRecords(records []model.ProductRecord) []jsonRecord {
	out := make([]jsonRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, encodeRecord(rec))
	}
	return out
}

// decodeRecord decodes a single JSON object into a record.
func decodeRecord(raw []byte) (model.ProductRecord, error) {
	var jr jsonRecord
	if err := json.Unmarshal(raw, &jr); err != nil {
		return model.ProductRecord{}, fmt.Errorf("decode record: %w", err)
	}

	var missing []string
	if jr.Name == nil {
		missing = append(missing, "name")
	}
	if jr.OriginalPrice == nil {
		missing = append(missing, "originalPrice")
	}
	if jr.DiscountPrice == nil {
		missing = append(missing, "discountPrice")
	}
	if jr.ExpiryDate == nil {
		missing = append(missing, "expiryDate")
	}
	if jr.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return model.ProductRecord{}, fmt.Errorf("decode record: missing fields %s", strings.Join(missing, ", "))
	}

	return model.ProductRecord{
		Name:          *jr.Name,
		OriginalPrice: *jr.OriginalPrice,
		DiscountPrice: *jr.DiscountPrice,
		ExpiryDate:    *jr.ExpiryDate,
		Quantity:      *jr.Quantity,
	}, nil
}

// recordName extracts the name of a raw JSON record on a best-effort basis.
func recordName(raw []byte) string {
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	name, _ := probe["name"].(string)
	return name
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// over path, so a failed write never truncates the previous content.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
