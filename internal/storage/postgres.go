package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres opens each named database on the server described by dsn, a
// postgres:// URL whose path is replaced by the database name.
func Postgres(dsn string) (*Engine, error) {
	base, err := url.Parse(dsn)
	if err != nil || (base.Scheme != "postgres" && base.Scheme != "postgresql") {
		return nil, fmt.Errorf("postgres engine needs a postgres:// url")
	}
	return &Engine{
		Name:   EnginePostgres,
		Driver: "pgx",
		DSN: func(database string) (string, error) {
			u := *base
			u.Path = "/" + database
			s := u.String()
			if _, err := pgx.ParseConfig(s); err != nil {
				return "", err
			}
			return s, nil
		},
		Dialect: Dialect{
			SchemaTable:  `CREATE TABLE IF NOT EXISTS kv_schema (version INTEGER NOT NULL)`,
			ReadVersion:  `SELECT COALESCE(MAX(version), 0) FROM kv_schema`,
			WriteVersion: `INSERT INTO kv_schema (version) VALUES ($1)`,
			CreateStore:  `CREATE TABLE IF NOT EXISTS %s (k TEXT PRIMARY KEY, v BYTEA NOT NULL)`,
			Get:          `SELECT v FROM %s WHERE k = $1`,
			Put:          `INSERT INTO %s (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`,
			Quote:        doubleQuote,
			ErrorName:    postgresErrorName,
		},
	}, nil
}

func postgresErrorName(err error) string {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return ""
	}
	switch {
	case pe.Code == "42P01":
		return "NotFoundError"
	case strings.HasPrefix(pe.Code, "23"):
		return "ConstraintError"
	case pe.Code == "25006":
		return "ReadOnlyError"
	case pe.Code == "53100":
		return "QuotaExceededError"
	}
	return "PostgresError" + pe.Code
}
