package storage

import (
	"context"
	"database/sql"
	"errors"
)

// Mode selects the kind of transaction an operation runs in.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "readwrite"
	}
	return "readonly"
}

var errConnClosed = errors.New("connection is closed")

// StoreTx scopes an open transaction to one store.
type StoreTx struct {
	tx      *sql.Tx
	store   string
	dialect Dialect
}

// Get returns the value under key; found is false when no record exists.
func (s *StoreTx) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	err = s.tx.QueryRowContext(ctx, s.dialect.get(s.store), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put inserts or replaces the value under key.
func (s *StoreTx) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.tx.ExecContext(ctx, s.dialect.put(s.store), key, value)
	return err
}

// Operation is a single store-level request run inside a transaction.
type Operation[T any] func(ctx context.Context, s *StoreTx) (T, error)

// Execute runs op in one transaction scoped to store and mode. The result of
// op is held back until the transaction commits, so a caller only sees
// values whose unit of work completed. Failures of the request or of the
// transaction itself come back as *TransactionError. Nothing is retried.
func Execute[T any](ctx context.Context, conn *Conn, store string, mode Mode, op Operation[T]) (T, error) {
	var zero T
	if err := validateStore(store); err != nil {
		return zero, err
	}
	if conn.Closed() {
		return zero, &TransactionError{Phase: PhaseTransaction, Name: "InvalidStateError", Err: errConnClosed}
	}

	tx, err := conn.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: mode == ModeRead})
	if err != nil {
		return zero, newTxError(PhaseTransaction, conn.dialect, err)
	}

	result, err := op(ctx, &StoreTx{tx: tx, store: store, dialect: conn.dialect})
	if err != nil {
		_ = tx.Rollback()
		return zero, newTxError(PhaseRequest, conn.dialect, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, newTxError(PhaseTransaction, conn.dialect, err)
	}
	return result, nil
}
