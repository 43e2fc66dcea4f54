package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hamed0406/endpointkit/internal/domain"
)

const (
	selectionKey = "selection/latest"
	announceKey  = "announce/state"
)

// RecordBacked keeps selections and announce state as JSON records in one
// store of one database.
type RecordBacked struct {
	Records RecordStore
	DB      string
	Store   string
}

func NewRecordBacked(rs RecordStore, db, store string) *RecordBacked {
	return &RecordBacked{Records: rs, DB: db, Store: store}
}

func (r *RecordBacked) SaveSelection(ctx context.Context, s domain.Selection) error {
	return r.put(ctx, selectionKey, s)
}

func (r *RecordBacked) LatestSelection(ctx context.Context) (*domain.Selection, error) {
	var s domain.Selection
	ok, err := r.get(ctx, selectionKey, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *RecordBacked) Get(ctx context.Context) (*AnnounceRecord, error) {
	var rec AnnounceRecord
	ok, err := r.get(ctx, announceKey, &rec)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordBacked) Set(ctx context.Context, fastest string, sentAt time.Time) error {
	rec := AnnounceRecord{Fastest: fastest}
	if !sentAt.IsZero() {
		rec.LastSentAt = &sentAt
	}
	return r.put(ctx, announceKey, rec)
}

func (r *RecordBacked) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.Records.Save(ctx, r.DB, r.Store, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *RecordBacked) get(ctx context.Context, key string, v any) (bool, error) {
	b, found, err := r.Records.Load(ctx, r.DB, r.Store, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

var _ SelectionStore = (*RecordBacked)(nil)
var _ AnnounceStore = (*RecordBacked)(nil)
