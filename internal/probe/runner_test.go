package probe

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// fake prober you can control per url
type fakeProber struct {
	delays map[string]time.Duration
	kinds  map[string]Kind
	calls  atomic.Int32
}

func (f *fakeProber) Probe(ctx context.Context, baseURL string) Outcome {
	f.calls.Add(1)
	d := f.delays[baseURL]
	time.Sleep(d)
	kind := f.kinds[baseURL]
	if kind == "" {
		kind = KindOK
	}
	return Outcome{URL: baseURL, Elapsed: d, Kind: kind}
}

func TestRunner_PreservesOrderAndRunsConcurrently(t *testing.T) {
	f := &fakeProber{
		delays: map[string]time.Duration{
			"https://slow.test": 120 * time.Millisecond,
			"https://mid.test":  80 * time.Millisecond,
			"https://fast.test": 10 * time.Millisecond,
		},
		kinds: map[string]Kind{"https://mid.test": KindNetwork},
	}
	urls := []string{"https://slow.test", "https://mid.test", "https://fast.test"}

	start := time.Now()
	out := NewRunner(f).Run(context.Background(), urls)
	took := time.Since(start)

	if len(out) != len(urls) {
		t.Fatalf("want %d outcomes, got %d", len(urls), len(out))
	}
	for i, u := range urls {
		if out[i].URL != u {
			t.Fatalf("outcome %d: want %s got %s", i, u, out[i].URL)
		}
	}
	if !out[1].Failed() {
		t.Fatalf("failure of one probe must be kept in its outcome")
	}
	// sequential would be ~210ms
	if took > 200*time.Millisecond {
		t.Fatalf("probes did not run concurrently: %v", took)
	}
}

func TestRunner_EmptyInputIssuesNothing(t *testing.T) {
	f := &fakeProber{}
	out := NewRunner(f).Run(context.Background(), nil)
	if len(out) != 0 {
		t.Fatalf("want empty result, got %d", len(out))
	}
	if f.calls.Load() != 0 {
		t.Fatalf("want no probes, got %d", f.calls.Load())
	}
}
