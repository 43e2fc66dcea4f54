package probe

import (
	"context"
	"time"
)

// Kind classifies how a probe settled.
type Kind string

const (
	KindOK      Kind = "ok"
	KindTimeout Kind = "timeout"
	KindHTTP    Kind = "http_error"
	KindNetwork Kind = "network_error"
)

// Outcome holds the settled state of a single probe.
//
// Elapsed covers the request and the full body read for successful probes,
// and the time until failure was known otherwise. StatusCode is 0 when no
// response headers arrived.
type Outcome struct {
	URL        string
	Elapsed    time.Duration
	Kind       Kind
	StatusCode int
	Err        error
}

// Failed reports whether the probe did not complete successfully.
func (o Outcome) Failed() bool { return o.Kind != KindOK }

// ElapsedMS returns Elapsed in fractional milliseconds.
func (o Outcome) ElapsedMS() float64 {
	return float64(o.Elapsed) / float64(time.Millisecond)
}

// Prober issues one bounded-time probe against a base URL.
type Prober interface {
	Probe(ctx context.Context, baseURL string) Outcome
}
