package storage

import (
	"fmt"
	"regexp"
)

var (
	databaseName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,62}$`)
	storeName    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,47}$`)
)

func validateDatabase(name string) error {
	if !databaseName.MatchString(name) {
		return fmt.Errorf("%w: database %q", ErrInvalidName, name)
	}
	return nil
}

func validateStore(name string) error {
	if !storeName.MatchString(name) {
		return fmt.Errorf("%w: store %q", ErrInvalidName, name)
	}
	return nil
}

// tableFor maps a store name onto its table; the prefix keeps stores away
// from the schema bookkeeping table.
func tableFor(store string) string { return "kv_store_" + store }
