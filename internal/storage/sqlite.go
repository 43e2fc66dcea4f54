package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLite stores each database as <dir>/<name>.db.
func SQLite(dir string) *Engine {
	if dir == "" {
		dir = "data"
	}
	return &Engine{
		Name:   EngineSQLite,
		Driver: "sqlite3",
		DSN: func(database string) (string, error) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", err
			}
			path := filepath.Join(dir, database+".db")
			return fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path), nil
		},
		// one writer at a time; sqlite serialises them anyway
		Configure: func(db *sql.DB) { db.SetMaxOpenConns(1) },
		Dialect: Dialect{
			SchemaTable:  `CREATE TABLE IF NOT EXISTS kv_schema (version INTEGER NOT NULL)`,
			ReadVersion:  `SELECT COALESCE(MAX(version), 0) FROM kv_schema`,
			WriteVersion: `INSERT INTO kv_schema (version) VALUES (?)`,
			CreateStore:  `CREATE TABLE IF NOT EXISTS %s (k TEXT PRIMARY KEY, v BLOB NOT NULL)`,
			Get:          `SELECT v FROM %s WHERE k = ?`,
			Put:          `INSERT INTO %s (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
			Quote:        doubleQuote,
			ErrorName:    sqliteErrorName,
		},
	}
}

func sqliteErrorName(err error) string {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return ""
	}
	switch {
	case strings.Contains(se.Error(), "no such table"):
		return "NotFoundError"
	case se.Code == sqlite3.ErrConstraint:
		return "ConstraintError"
	case se.Code == sqlite3.ErrReadonly:
		return "ReadOnlyError"
	case se.Code == sqlite3.ErrFull:
		return "QuotaExceededError"
	case se.Code == sqlite3.ErrBusy, se.Code == sqlite3.ErrLocked:
		return "BusyError"
	}
	return "SQLiteError"
}
