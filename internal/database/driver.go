package database

import "context"

// Conn defines the introspection and preview surface of an opened connection.
// The metadata layer only talks to backends through this interface.
type Conn interface {
	// Info returns the connection attributes reported by the backend.
	Info() Info

	// TableTypes returns the raw table-type labels the backend knows about
	// (e.g. "TABLE", "VIEW", "MATERIALIZED VIEW").
	TableTypes(ctx context.Context) ([]string, error)

	// Catalogs returns all catalogs. Backends without catalogs return an empty list.
	Catalogs(ctx context.Context) ([]string, error)

	// Schemas returns all schemas, scoped to catalog when it is non-empty.
	Schemas(ctx context.Context, catalog string) ([]string, error)

	// Tables returns the tables and views matching the filter.
	Tables(ctx context.Context, filter TableFilter) ([]TableRow, error)

	// Columns returns the columns of one table or view.
	Columns(ctx context.Context, name, catalog, schema string) ([]Column, error)

	// ExecuteQuery runs a SQL query and returns at most rowLimit rows.
	ExecuteQuery(ctx context.Context, query string, rowLimit int) (*QueryResult, error)

	// QuoteIdentifier quotes a single identifier using the backend's rules.
	QuoteIdentifier(name string) string

	// Close closes the connection.
	Close() error
}

// RowCounter is implemented by connections that can estimate table sizes
// without scanning them.
type RowCounter interface {
	ApproxRowCount(ctx context.Context, catalog, schema, name string) (int64, error)
}
