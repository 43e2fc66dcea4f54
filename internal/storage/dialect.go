package storage

import "fmt"

// schemaVersion is the only version stores are created at. A database
// opened again later never creates further stores.
const schemaVersion = 1

// Dialect holds the SQL one engine needs. Statements taking a table carry a
// single %s verb; names are validated before they reach it.
type Dialect struct {
	SchemaTable  string
	ReadVersion  string
	WriteVersion string
	CreateStore  string
	Get          string
	Put          string
	Quote        func(ident string) string
	ErrorName    func(err error) string
}

func (d Dialect) table(store string) string {
	return d.Quote(tableFor(store))
}

func (d Dialect) createStore(store string) string { return fmt.Sprintf(d.CreateStore, d.table(store)) }
func (d Dialect) get(store string) string         { return fmt.Sprintf(d.Get, d.table(store)) }
func (d Dialect) put(store string) string         { return fmt.Sprintf(d.Put, d.table(store)) }

func doubleQuote(ident string) string { return `"` + ident + `"` }
