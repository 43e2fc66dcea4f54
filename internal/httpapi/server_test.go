package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hamed0406/endpointkit/internal/storage"
)

func TestIsValidHTTPURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://EXAMPLE.com/mirror/", true},
		{"ftp://x", false},
		{"", false},
		{"https://", false},
		{"example.com", false},
	}
	for _, c := range cases {
		if got := isValidHTTPURL(c.in); got != c.want {
			t.Fatalf("isValidHTTPURL(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("save: %w", storage.ErrInvalidName), http.StatusBadRequest},
		{storage.ErrEnvironmentUnsupported, http.StatusServiceUnavailable},
		{&storage.OpenError{Database: "db", Err: errors.New("disk")}, http.StatusInternalServerError},
		{&storage.TransactionError{Phase: storage.PhaseRequest, Name: "NotFoundError", Err: errors.New("x")}, http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, c := range cases {
		if got := statusFor(c.err); got != c.want {
			t.Fatalf("statusFor(%v)=%d want %d", c.err, got, c.want)
		}
	}
}
