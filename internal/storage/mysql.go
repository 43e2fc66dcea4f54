package storage

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL opens each named database on the server described by dsn; the
// database part of dsn is replaced by the requested name.
func MySQL(dsn string) (*Engine, error) {
	base, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql engine: %w", err)
	}
	return &Engine{
		Name:   EngineMySQL,
		Driver: "mysql",
		DSN: func(database string) (string, error) {
			cfg := base.Clone()
			cfg.DBName = database
			return cfg.FormatDSN(), nil
		},
		Dialect: Dialect{
			SchemaTable:  "CREATE TABLE IF NOT EXISTS kv_schema (version INT NOT NULL)",
			ReadVersion:  "SELECT COALESCE(MAX(version), 0) FROM kv_schema",
			WriteVersion: "INSERT INTO kv_schema (version) VALUES (?)",
			CreateStore:  "CREATE TABLE IF NOT EXISTS %s (k VARCHAR(255) NOT NULL PRIMARY KEY, v LONGBLOB NOT NULL)",
			Get:          "SELECT v FROM %s WHERE k = ?",
			Put:          "INSERT INTO %s (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)",
			Quote:        func(ident string) string { return "`" + ident + "`" },
			ErrorName:    mysqlErrorName,
		},
	}, nil
}

func mysqlErrorName(err error) string {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return ""
	}
	switch me.Number {
	case 1146:
		return "NotFoundError"
	case 1062, 1452:
		return "ConstraintError"
	case 1792:
		return "ReadOnlyError"
	case 1114:
		return "QuotaExceededError"
	}
	return fmt.Sprintf("MySQLError%d", me.Number)
}
