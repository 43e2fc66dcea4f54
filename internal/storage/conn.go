package storage

import (
	"database/sql"
	"sync"
)

// Conn is an open database handle owned by a Cache. Closing it notifies the
// observers registered with OnClose exactly once.
type Conn struct {
	name    string
	db      *sql.DB
	dialect Dialect

	mu        sync.Mutex
	closed    bool
	observers []func()
}

func newConn(name string, db *sql.DB, d Dialect) *Conn {
	return &Conn{name: name, db: db, dialect: d}
}

func (c *Conn) Name() string { return c.name }

// OnClose registers fn to run once the connection closes. On an already
// closed connection fn runs immediately.
func (c *Conn) OnClose(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		fn()
		return
	}
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	obs := c.observers
	c.observers = nil
	c.mu.Unlock()

	err := c.db.Close()
	for _, fn := range obs {
		fn()
	}
	return err
}
