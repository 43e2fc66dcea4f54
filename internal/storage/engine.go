package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
)

// Engine opens named databases through one database/sql driver.
type Engine struct {
	Name    string
	Driver  string
	Dialect Dialect

	// DSN maps a database name onto a driver connection string.
	DSN func(database string) (string, error)
	// Configure tunes the pool after open; optional.
	Configure func(db *sql.DB)
}

// NewEngine builds the engine named by kind. dir is used by sqlite, dsn by
// the server engines.
func NewEngine(kind, dir, dsn string) (*Engine, error) {
	switch strings.ToLower(kind) {
	case "", EngineSQLite, "sqlite3":
		return SQLite(dir), nil
	case EnginePostgres, "pg", "pgx":
		return Postgres(dsn)
	case EngineMySQL:
		return MySQL(dsn)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", kind)
	}
}

// Supported reports whether the engine's driver is registered in this
// process.
func (e *Engine) Supported() bool {
	return e != nil && e.DSN != nil && slices.Contains(sql.Drivers(), e.Driver)
}

func (e *Engine) open(ctx context.Context, database string) (*sql.DB, error) {
	dsn, err := e.DSN(database)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(e.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if e.Configure != nil {
		e.Configure(db)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
