package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/repo"
	"github.com/hamed0406/endpointkit/internal/repo/memory"
)

// --- fakes ---

type fakeSelector struct {
	mu    sync.Mutex
	calls int
	urls  []string
}

func (f *fakeSelector) SelectFastest(ctx context.Context, urls []string, debug bool) []domain.RankedResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.urls = urls
	out := make([]domain.RankedResult, len(urls))
	for i, u := range urls {
		out[i] = domain.RankedResult{URL: u, ElapsedTimeMS: 5, IsFastest: i == 0}
	}
	return out
}

func (f *fakeSelector) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- tests ---

func TestReselector_RunPersistsAndAnnounces(t *testing.T) {
	store := repo.NewRecordBacked(memory.New(), "endpointkit", "state")
	sel := &fakeSelector{}
	nt := &memNotifier{}
	ann := NewAnnouncer(store, nt, zap.NewNop(), AnnouncerConfig{})

	rs := NewReselector(zap.NewNop(), sel, store, ann,
		[]string{"https://a.example/", "https://b.example/"},
		2*time.Millisecond, // Interval (immediate pass + ticks)
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sel.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	latest, err := store.LatestSelection(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "https://a.example/", latest.Fastest)
	assert.Len(t, latest.Results, 2)

	// fastest never changed, so only the baseline was recorded
	assert.Empty(t, nt.titles)
	rec, err := store.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a.example/", rec.Fastest)
}

func TestReselector_DisabledWithoutIntervalOrEndpoints(t *testing.T) {
	store := repo.NewRecordBacked(memory.New(), "endpointkit", "state")
	sel := &fakeSelector{}

	for _, rs := range []*Reselector{
		NewReselector(zap.NewNop(), sel, store, nil, []string{"https://a.example/"}, 0),
		NewReselector(zap.NewNop(), sel, store, nil, nil, time.Millisecond),
	} {
		// returns immediately
		rs.Run(context.Background())
	}
	assert.Equal(t, 0, sel.count())
}

type failingSelections struct{}

func (failingSelections) SaveSelection(context.Context, domain.Selection) error {
	return errors.New("no such store")
}

func (failingSelections) LatestSelection(context.Context) (*domain.Selection, error) {
	return nil, nil
}

func TestReselector_SaveErrorStillAnnounces(t *testing.T) {
	ctx := context.Background()
	a, nt, _, state := newAnnouncer(t, time.Minute)
	require.NoError(t, state.Set(ctx, "https://old.example/", time.Time{}))

	rs := NewReselector(zap.NewNop(), &fakeSelector{}, failingSelections{}, a,
		[]string{"https://a.example/", "https://b.example/"}, time.Minute)
	rs.runOnce(ctx)

	require.Len(t, nt.titles, 1)
	rec, err := state.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "https://a.example/", rec.Fastest)
}
