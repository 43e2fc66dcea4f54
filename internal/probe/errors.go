package probe

import (
	"fmt"
	"time"
)

// TimeoutError marks a probe whose deadline fired before it settled.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Timeout after %dms", e.After.Milliseconds())
}

// HTTPError marks a probe that received a non-2xx response.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	if e.StatusText == "" {
		return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP Error: %d %s", e.StatusCode, e.StatusText)
}
