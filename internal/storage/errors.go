package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrEnvironmentUnsupported is returned when the configured engine's
	// driver is not available in this build.
	ErrEnvironmentUnsupported = errors.New("storage: engine not supported in this environment")
	ErrOpenFailed             = errors.New("storage: open failed")
	ErrTransactionFailed      = errors.New("storage: transaction failed")
	ErrInvalidName            = errors.New("storage: invalid name")
)

// OpenError wraps a failed database open. It matches ErrOpenFailed.
type OpenError struct {
	Database string
	Err      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Database, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{ErrOpenFailed, e.Err} }

// Phase says where a transaction failed.
type Phase string

const (
	PhaseRequest     Phase = "request"
	PhaseTransaction Phase = "transaction"
)

// TransactionError is the uniform failure of a get or put. Name is the
// engine's name for the failure, e.g. NotFoundError for a missing store.
// It matches ErrTransactionFailed.
type TransactionError struct {
	Phase Phase
	Name  string
	Err   error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Phase, e.Name)
}

func (e *TransactionError) Unwrap() []error { return []error{ErrTransactionFailed, e.Err} }

func newTxError(phase Phase, d Dialect, err error) error {
	return &TransactionError{Phase: phase, Name: errorName(d, err), Err: err}
}

// errorName resolves engine-independent names first, then asks the dialect.
func errorName(d Dialect, err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "AbortError"
	case errors.Is(err, context.DeadlineExceeded):
		return "TimeoutError"
	case errors.Is(err, sql.ErrTxDone), errors.Is(err, sql.ErrConnDone):
		return "TransactionInactiveError"
	}
	if d.ErrorName != nil {
		if name := d.ErrorName(err); name != "" {
			return name
		}
	}
	return "UnknownError"
}
