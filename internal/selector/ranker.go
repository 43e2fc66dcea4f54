package selector

import (
	"math"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/probe"
)

// Rank turns settled probe outcomes into reported results, in input order.
//
// The minimum is taken over unrounded elapsed times of non-failed outcomes.
// Exactly one result, the earliest in input order holding that minimum, is
// marked fastest; none is when every probe failed.
func Rank(outcomes []probe.Outcome) []domain.RankedResult {
	fastest := -1
	best := math.Inf(1)
	for i, o := range outcomes {
		if o.Failed() {
			continue
		}
		if ms := o.ElapsedMS(); ms < best {
			best, fastest = ms, i
		}
	}

	out := make([]domain.RankedResult, len(outcomes))
	for i, o := range outcomes {
		r := domain.RankedResult{
			URL:           o.URL,
			ElapsedTimeMS: round2(o.ElapsedMS()),
			Failed:        o.Failed(),
			IsFastest:     i == fastest,
		}
		if o.Failed() {
			msg := errorMessage(o)
			r.ErrorMessage = &msg
		}
		out[i] = r
	}
	return out
}

func round2(ms float64) float64 {
	return math.Round(ms*100) / 100
}

func errorMessage(o probe.Outcome) string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return string(o.Kind)
}
