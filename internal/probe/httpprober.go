package probe

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DefaultTimeout = 3000 * time.Millisecond
	DefaultPath    = "test.bin"
)

// HTTPProber fetches <base>/test.bin and measures how long the full body
// takes to arrive. Each probe owns its own cancellation; a firing deadline
// aborts only that probe's request.
type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
	Path    string
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		// no client timeout: the per-probe timer owns the deadline
		Client:  &http.Client{},
		Timeout: timeout,
		Path:    DefaultPath,
	}
}

// TargetURL appends path to base, inserting a slash when base lacks one.
func TargetURL(base, path string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

func (p *HTTPProber) Probe(ctx context.Context, baseURL string) Outcome {
	out := Outcome{URL: baseURL}

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	timer := time.AfterFunc(p.timeout(), func() {
		timedOut.Store(true)
		cancel()
	})
	defer timer.Stop()

	start := time.Now()
	settle := func(kind Kind, err error) Outcome {
		out.Elapsed = time.Since(start)
		if kind == KindNetwork && timedOut.Load() {
			kind, err = KindTimeout, &TimeoutError{After: p.timeout()}
		}
		out.Kind, out.Err = kind, err
		return out
	}

	req, err := http.NewRequestWithContext(pctx, http.MethodGet, TargetURL(baseURL, p.path()), nil)
	if err != nil {
		return settle(KindNetwork, err)
	}
	resp, err := p.client().Do(req)
	if err != nil {
		return settle(KindNetwork, err)
	}
	defer resp.Body.Close()

	out.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return settle(KindHTTP, &HTTPError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		})
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return settle(KindNetwork, err)
	}
	return settle(KindOK, nil)
}

func (p *HTTPProber) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func (p *HTTPProber) path() string {
	if p.Path == "" {
		return DefaultPath
	}
	return p.Path
}

func (p *HTTPProber) client() *http.Client {
	if p.Client == nil {
		return http.DefaultClient
	}
	return p.Client
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
