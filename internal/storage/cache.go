package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/metrics"
)

// pending is one open, shared by every caller asking for the same database
// while it is in flight or live.
type pending struct {
	done chan struct{}
	conn *Conn
	err  error
}

// Cache memoizes database opens per name. Concurrent callers for the same
// name share a single underlying open and observe the same handle or the
// same failure. Entries leave the cache when their connection closes or
// their open fails, so the next caller opens afresh.
type Cache struct {
	engine  *Engine
	logger  *zap.Logger
	entries *xsync.MapOf[string, *pending]
}

func NewCache(engine *Engine, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		engine:  engine,
		logger:  logger,
		entries: xsync.NewMapOf[string, *pending](),
	}
}

// Open returns the shared connection for name. On the first open of a
// database the store named storeName is created in its schema upgrade.
func (c *Cache) Open(ctx context.Context, name, storeName string) (*Conn, error) {
	if !c.engine.Supported() {
		return nil, ErrEnvironmentUnsupported
	}
	if err := validateDatabase(name); err != nil {
		return nil, err
	}
	if err := validateStore(storeName); err != nil {
		return nil, err
	}

	p, loaded := c.entries.LoadOrCompute(name, func() *pending {
		return &pending{done: make(chan struct{})}
	})
	if !loaded {
		// detached: a waiter giving up must not fail the others
		go c.open(context.WithoutCancel(ctx), name, storeName, p)
	}

	select {
	case <-p.done:
		return p.conn, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) open(ctx context.Context, name, storeName string, p *pending) {
	defer close(p.done)
	metrics.ObserveOpen()

	db, err := c.engine.open(ctx, name)
	if err == nil {
		if err = upgrade(ctx, db, c.engine.Dialect, storeName); err != nil {
			db.Close()
		}
	}
	if err != nil {
		p.err = &OpenError{Database: name, Err: err}
		c.evict(name, p)
		c.logger.Debug("db_open_failed", zap.String("db", name), zap.Error(err))
		return
	}

	conn := newConn(name, db, c.engine.Dialect)
	conn.OnClose(func() {
		c.evict(name, p)
		c.logger.Debug("db_closed", zap.String("db", name))
	})
	p.conn = conn
	c.logger.Debug("db_opened", zap.String("db", name), zap.String("engine", c.engine.Name))
}

// evict drops the entry for name only while it still belongs to p.
func (c *Cache) evict(name string, p *pending) {
	c.entries.Compute(name, func(old *pending, loaded bool) (*pending, bool) {
		if loaded && old != p {
			return old, false
		}
		return old, true
	})
}

// Len returns the number of live or in-flight entries.
func (c *Cache) Len() int { return c.entries.Size() }

// Close closes every open connection the cache holds. In-flight opens are
// left to finish on their own.
func (c *Cache) Close() error {
	var conns []*Conn
	c.entries.Range(func(_ string, p *pending) bool {
		select {
		case <-p.done:
			if p.conn != nil {
				conns = append(conns, p.conn)
			}
		default:
		}
		return true
	})

	var err error
	for _, conn := range conns {
		if cerr := conn.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", conn.Name(), cerr))
		}
	}
	return err
}

// upgrade runs the single version step: on a fresh database it creates the
// requested store and stamps the schema version.
func upgrade(ctx context.Context, db *sql.DB, d Dialect, storeName string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, d.SchemaTable); err != nil {
		return fmt.Errorf("schema table: %w", err)
	}
	var version int
	if err := tx.QueryRowContext(ctx, d.ReadVersion).Scan(&version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version >= schemaVersion {
		return tx.Commit()
	}
	if _, err := tx.ExecContext(ctx, d.createStore(storeName)); err != nil {
		return fmt.Errorf("create store %s: %w", storeName, err)
	}
	if _, err := tx.ExecContext(ctx, d.WriteVersion, schemaVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return tx.Commit()
}
