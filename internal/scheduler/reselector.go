package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/repo"
)

type Selector interface {
	SelectFastest(ctx context.Context, urls []string, debug bool) []domain.RankedResult
}

// Reselector re-runs endpoint selection on an interval, persists each round
// and hands it to the Announcer.
type Reselector struct {
	Logger     *zap.Logger
	Selector   Selector
	Selections repo.SelectionStore
	Announcer  *Announcer // optional
	Endpoints  []string
	Interval   time.Duration
	Debug      bool
}

func NewReselector(
	logger *zap.Logger,
	sel Selector,
	selections repo.SelectionStore,
	announcer *Announcer,
	endpoints []string,
	interval time.Duration,
) *Reselector {
	if interval < 0 {
		interval = 0
	}
	return &Reselector{
		Logger:     logger,
		Selector:   sel,
		Selections: selections,
		Announcer:  announcer,
		Endpoints:  endpoints,
		Interval:   interval,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Reselector) Run(ctx context.Context) {
	if r.Interval == 0 || len(r.Endpoints) == 0 {
		// disabled
		r.Logger.Info("reselector_disabled",
			zap.Duration("interval", r.Interval),
			zap.Int("endpoints", len(r.Endpoints)),
		)
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	// immediate pass
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("reselector_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reselector) runOnce(ctx context.Context) {
	results := r.Selector.SelectFastest(ctx, r.Endpoints, r.Debug)
	if ctx.Err() != nil {
		// shutting down mid-round; results are all cancellations
		return
	}
	sel := domain.NewSelection(results, time.Now().UTC())

	if err := r.Selections.SaveSelection(ctx, sel); err != nil {
		r.Logger.Warn("reselector_save_error", zap.Error(err))
	}
	r.Logger.Debug("reselector_round",
		zap.Int("candidates", len(results)),
		zap.String("fastest", sel.Fastest),
	)

	if r.Announcer != nil {
		if err := r.Announcer.Observe(ctx, sel); err != nil {
			r.Logger.Warn("reselector_announce_error", zap.Error(err))
		}
	}
}
