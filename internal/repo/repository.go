package repo

import (
	"context"
	"time"

	"github.com/hamed0406/endpointkit/internal/domain"
)

// Ports (interfaces). storage.Records and memory.Store both satisfy RecordStore.
type RecordStore interface {
	Save(ctx context.Context, db, store, key string, value []byte) error
	// Load returns found=false, nil error for a key never written.
	Load(ctx context.Context, db, store, key string) (value []byte, found bool, err error)
}

type SelectionStore interface {
	SaveSelection(ctx context.Context, s domain.Selection) error
	// LatestSelection returns nil, nil if nothing was saved yet.
	LatestSelection(ctx context.Context) (*domain.Selection, error)
}

// AnnounceRecord holds the last fastest endpoint we saw and the last time a
// notification went out (used for cooldown).
type AnnounceRecord struct {
	Fastest    string     `json:"fastest"`
	LastSentAt *time.Time `json:"lastSentAt,omitempty"`
}

type AnnounceStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context) (*AnnounceRecord, error)
	// Set upserts the record. If sentAt.IsZero() the previous send time is cleared.
	Set(ctx context.Context, fastest string, sentAt time.Time) error
}
