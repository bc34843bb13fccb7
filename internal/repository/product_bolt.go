package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
)

var _ ProductRepository = (*boltProductRepository)(nil)

var productsBucket = []byte("products")

// boltProductRepository stores one JSON record per key in a bbolt bucket.
// Keys are big-endian positions, so cursor order is insertion order.
type boltProductRepository struct {
	path string
}

func NewBoltProductRepository(path string) ProductRepository {
	return &boltProductRepository{path: path}
}

func (r *boltProductRepository) Load(_ context.Context) (LoadResult, error) {
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("%w: %s", ErrNotExist, r.path)
		}
		return LoadResult{}, fmt.Errorf("stat file: %w", err)
	}

	bdb, err := r.open()
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	defer bdb.Close()

	var result LoadResult
	if err := bdb.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(productsBucket)
		if b == nil {
			return nil
		}

		i := -1
		return b.ForEach(func(_, v []byte) error {
			i++
			rec, err := decodeRecord(v)
			if err != nil {
				result.Rejected = append(result.Rejected, rejected(i, recordName(v), err))
				return nil
			}
			result.Records = append(result.Records, rec)
			return nil
		})
	}); err != nil {
		return LoadResult{}, fmt.Errorf("view products: %w", err)
	}

	return result, nil
}

func (r *boltProductRepository) Save(_ context.Context, records []model.ProductRecord) error {
	bdb, err := r.open()
	if err != nil {
		return fmt.Errorf("open bolt: %w", err)
	}
	defer bdb.Close()

	if err := bdb.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(productsBucket); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("delete bucket: %w", err)
		}

		b, err := tx.CreateBucket(productsBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		for i, rec := range records {
			v, err := json.Marshal(encodeRecord(rec))
			if err != nil {
				return fmt.Errorf("marshal record %q: %w", rec.Name, err)
			}

			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := b.Put(key, v); err != nil {
				return fmt.Errorf("put record %q: %w", rec.Name, err)
			}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update products: %w", err)
	}

	return nil
}

func (r *boltProductRepository) open() (*bbolt.DB, error) {
	bdb, err := bbolt.Open(r.path, 0o644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	return bdb, nil
}
