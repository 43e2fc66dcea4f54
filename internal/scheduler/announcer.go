package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/notify"
	"github.com/hamed0406/endpointkit/internal/repo"
)

type AnnouncerConfig struct {
	// Cooldown suppresses repeated "all failing" / switch messages. A switch
	// back from "all failing" to a working endpoint always goes out.
	Cooldown time.Duration
}

// Announcer tells humans when the fastest endpoint changes.
type Announcer struct {
	state    repo.AnnounceStore
	notifier notify.Notifier
	logger   *zap.Logger
	cfg      AnnouncerConfig
	now      func() time.Time
}

func NewAnnouncer(state repo.AnnounceStore, n notify.Notifier, logger *zap.Logger, cfg AnnouncerConfig) *Announcer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Announcer{
		state:    state,
		notifier: n,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Observe compares a selection round with the last recorded one. The first
// round only records a baseline.
func (a *Announcer) Observe(ctx context.Context, sel domain.Selection) error {
	rec, err := a.state.Get(ctx)
	if err != nil {
		return fmt.Errorf("announce state: %w", err)
	}
	if rec == nil {
		return a.state.Set(ctx, sel.Fastest, time.Time{})
	}
	if rec.Fastest == sel.Fastest {
		return nil
	}

	now := a.now()
	cooled := true
	if rec.LastSentAt != nil {
		cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
	}
	recovered := rec.Fastest == "" && sel.Fastest != ""

	if !cooled && !recovered {
		// remember the new state but keep the old send time so cooldown holds
		var prev time.Time
		if rec.LastSentAt != nil {
			prev = *rec.LastSentAt
		}
		a.logger.Debug("announce_suppressed",
			zap.String("from", rec.Fastest),
			zap.String("to", sel.Fastest),
		)
		return a.state.Set(ctx, sel.Fastest, prev)
	}

	title, text := message(rec.Fastest, sel)
	if err := a.notifier.Send(ctx, title, text); err != nil {
		// best-effort; state still moves on so we don't spam on retry
		a.logger.Warn("announce_send_error", zap.Error(err))
	}
	return a.state.Set(ctx, sel.Fastest, now)
}

func message(prev string, sel domain.Selection) (title, text string) {
	checked := sel.CheckedAt.Format(time.RFC3339)
	if sel.Fastest == "" {
		return "🔴 All endpoints failing",
			fmt.Sprintf("Previous: %s\nCandidates: %d\nChecked: %s", orNone(prev), len(sel.Results), checked)
	}

	elapsed := "n/a"
	for _, r := range sel.Results {
		if r.IsFastest {
			elapsed = fmt.Sprintf("%.2f ms", r.ElapsedTimeMS)
			break
		}
	}
	title = "🔀 Fastest endpoint changed"
	if prev == "" {
		title = "🟢 Endpoint available"
	}
	return title, fmt.Sprintf("Now: %s (%s)\nPrevious: %s\nChecked: %s", sel.Fastest, elapsed, orNone(prev), checked)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
