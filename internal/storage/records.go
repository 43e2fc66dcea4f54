package storage

import (
	"context"

	"github.com/hamed0406/endpointkit/internal/metrics"
)

// Records is the key/value surface over a Cache: each call resolves the
// shared connection, then runs one transaction.
type Records struct {
	cache *Cache
}

func NewRecords(cache *Cache) *Records {
	return &Records{cache: cache}
}

// Save writes value under key in store, creating the store on the first open
// of db.
func (r *Records) Save(ctx context.Context, db, store, key string, value []byte) (err error) {
	defer func() { metrics.ObserveStorage("save", err) }()

	conn, err := r.cache.Open(ctx, db, store)
	if err != nil {
		return err
	}
	_, err = Execute(ctx, conn, store, ModeWrite, func(ctx context.Context, s *StoreTx) (struct{}, error) {
		return struct{}{}, s.Put(ctx, key, value)
	})
	return err
}

// Load reads the value under key. A key never written yields found=false
// and a nil error.
func (r *Records) Load(ctx context.Context, db, store, key string) (value []byte, found bool, err error) {
	defer func() { metrics.ObserveStorage("load", err) }()

	conn, err := r.cache.Open(ctx, db, store)
	if err != nil {
		return nil, false, err
	}

	type hit struct {
		value []byte
		found bool
	}
	h, err := Execute(ctx, conn, store, ModeRead, func(ctx context.Context, s *StoreTx) (hit, error) {
		v, ok, err := s.Get(ctx, key)
		return hit{v, ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	return h.value, h.found, nil
}

// Prepare opens db so that store exists before any other caller can open
// the database with a different store name.
func (r *Records) Prepare(ctx context.Context, db, store string) error {
	_, err := r.cache.Open(ctx, db, store)
	return err
}

// Close releases every cached connection.
func (r *Records) Close() error { return r.cache.Close() }
