package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTargetURL(t *testing.T) {
	cases := []struct {
		base, want string
	}{
		{"https://a.test", "https://a.test/test.bin"},
		{"https://a.test/", "https://a.test/test.bin"},
		{"https://a.test/mirror", "https://a.test/mirror/test.bin"},
		{"https://a.test/mirror/", "https://a.test/mirror/test.bin"},
	}
	for _, c := range cases {
		if got := TargetURL(c.base, DefaultPath); got != c.want {
			t.Fatalf("TargetURL(%q)=%q want %q", c.base, got, c.want)
		}
	}
}

func TestHTTPProber_StatusOK(t *testing.T) {
	var gotPath string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(200)
		w.Write([]byte(strings.Repeat("x", 64<<10)))
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if out.Failed() {
		t.Fatalf("want success, got %+v", out)
	}
	if gotPath != "/test.bin" {
		t.Fatalf("want probe path /test.bin, got %q", gotPath)
	}
	if out.StatusCode != 200 || out.Err != nil {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Elapsed <= 0 {
		t.Fatalf("elapsed should be > 0, got %v", out.Elapsed)
	}
}

func TestHTTPProber_Status404(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if !out.Failed() || out.Kind != KindHTTP {
		t.Fatalf("want http failure, got %+v", out)
	}
	if out.StatusCode != 404 {
		t.Fatalf("want status 404, got %d", out.StatusCode)
	}
	if out.Err.Error() != "HTTP Error: 404 Not Found" {
		t.Fatalf("unexpected message %q", out.Err.Error())
	}
	var he *HTTPError
	if !errors.As(out.Err, &he) {
		t.Fatalf("want *HTTPError, got %T", out.Err)
	}
}

func TestHTTPProber_TimeoutCancelsRequest(t *testing.T) {
	release := make(chan struct{})
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer s.Close()
	defer close(release)

	start := time.Now()
	out := NewHTTPProber(50*time.Millisecond).Probe(context.Background(), s.URL)
	if out.Kind != KindTimeout {
		t.Fatalf("want timeout, got %+v", out)
	}
	if out.Err.Error() != "Timeout after 50ms" {
		t.Fatalf("unexpected message %q", out.Err.Error())
	}
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on timeout, got %d", out.StatusCode)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("probe did not honour its deadline: %v", time.Since(start))
	}
}

func TestHTTPProber_SlowBodyCountsTowardDeadline(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer s.Close()

	out := NewHTTPProber(100*time.Millisecond).Probe(context.Background(), s.URL)
	if out.Kind != KindTimeout {
		t.Fatalf("want timeout while reading body, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("headers arrived, want status 200 recorded, got %d", out.StatusCode)
	}
}

func TestHTTPProber_NetworkError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	out := NewHTTPProber(time.Second).Probe(context.Background(), url)
	if out.Kind != KindNetwork {
		t.Fatalf("want network error, got %+v", out)
	}
	if out.Err == nil || out.Err.Error() == "" {
		t.Fatalf("want non-empty error message")
	}
}

func TestHTTPProber_InvalidURL(t *testing.T) {
	out := NewHTTPProber(time.Second).Probe(context.Background(), "://bad")
	if out.Kind != KindNetwork || out.Err == nil {
		t.Fatalf("want network error for malformed url, got %+v", out)
	}
}
