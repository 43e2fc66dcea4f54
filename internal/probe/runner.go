package probe

import (
	"context"
	"sync"
)

// Runner fans probes out concurrently and waits until every one settled.
// A slow endpoint never cuts the others short.
type Runner struct {
	Prober Prober
}

func NewRunner(p Prober) *Runner {
	return &Runner{Prober: p}
}

// Run returns one outcome per url, in input order. Empty input issues no
// requests.
func (r *Runner) Run(ctx context.Context, urls []string) []Outcome {
	out := make([]Outcome, len(urls))
	if len(urls) == 0 {
		return out
	}

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			out[i] = r.Prober.Probe(ctx, u)
		}(i, u)
	}
	wg.Wait()
	return out
}
