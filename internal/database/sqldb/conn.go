// Package sqldb implements database.Conn on top of database/sql for the
// backends that ship a database/sql driver (MySQL, SQLite, DuckDB).
//
// Each backend is described by a Flavor: the catalog SQL it answers to, how
// it quotes identifiers and how its DSN maps to connection identity.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joacominatel/dbscope/internal/database"
)

// Flavor describes one database/sql backend.
type Flavor struct {
	// Name is the name registered with database.Register.
	Name string
	// DriverName is the database/sql driver name.
	DriverName  string
	ProductName string

	SupportsCatalog bool
	SupportsSchema  bool
	TableTypes      []string

	// CatalogsSQL lists catalogs; empty means the backend has none.
	CatalogsSQL string
	// SchemasSQL lists schemas; empty means the backend has none.
	SchemasSQL  string
	SchemasArgs func(catalog string) []any
	// TablesSQL returns name, schema, catalog, type. Rows are filtered again
	// in Go, so the SQL only needs to narrow the scan.
	TablesSQL  string
	TablesArgs func(filter database.TableFilter) []any
	// ColumnsSQL returns name, type, is_nullable ('YES'/'NO'), default,
	// ordinal position, is_primary.
	ColumnsSQL  string
	ColumnsArgs func(name, catalog, schema string) []any

	Quote func(name string) string
	// OpenDSN rewrites the configured DSN before sql.Open.
	OpenDSN func(dsn string) string
	// Identify derives user, database and server from the DSN.
	Identify func(dsn string) database.Info
}

// Conn implements database.Conn over a *sql.DB.
type Conn struct {
	db     *sql.DB
	flavor Flavor
	info   database.Info
	logger *slog.Logger
}

var (
	_ database.Conn       = (*Conn)(nil)
	_ database.RowCounter = (*Conn)(nil)
)

// New wraps an open *sql.DB. A nil logger discards output.
func New(db *sql.DB, flavor Flavor, cfg database.Config, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var info database.Info
	if flavor.Identify != nil {
		info = flavor.Identify(cfg.DSN)
	}
	info.ProductName = flavor.ProductName
	info.Source = cfg.Source
	info.SupportsCatalog = flavor.SupportsCatalog
	info.SupportsSchema = flavor.SupportsSchema
	return &Conn{db: db, flavor: flavor, info: info, logger: logger}
}

// Opener returns a database.Opener that opens and pings a flavor's database.
func Opener(flavor Flavor) database.Opener {
	return func(ctx context.Context, cfg database.Config, logger *slog.Logger) (database.Conn, error) {
		dsn := cfg.DSN
		if flavor.OpenDSN != nil {
			dsn = flavor.OpenDSN(dsn)
		}

		db, err := sql.Open(flavor.DriverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", flavor.Name, err)
		}

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping %s: %w", flavor.Name, err)
		}

		return New(db, flavor, cfg, logger), nil
	}
}

// Info returns the connection attributes.
func (c *Conn) Info() database.Info {
	return c.info
}

// TableTypes returns the table types of the flavor.
func (c *Conn) TableTypes(_ context.Context) ([]string, error) {
	return append([]string(nil), c.flavor.TableTypes...), nil
}

// Catalogs returns all catalogs.
func (c *Conn) Catalogs(ctx context.Context) ([]string, error) {
	if c.flavor.CatalogsSQL == "" {
		return nil, nil
	}
	return c.strings(ctx, "list catalogs", c.flavor.CatalogsSQL)
}

// Schemas returns all schemas, scoped to catalog when set.
func (c *Conn) Schemas(ctx context.Context, catalog string) ([]string, error) {
	if c.flavor.SchemasSQL == "" {
		return nil, nil
	}
	var args []any
	if c.flavor.SchemasArgs != nil {
		args = c.flavor.SchemasArgs(catalog)
	}
	return c.strings(ctx, "list schemas", c.flavor.SchemasSQL, args...)
}

// Tables returns the tables and views matching filter.
func (c *Conn) Tables(ctx context.Context, filter database.TableFilter) ([]database.TableRow, error) {
	var args []any
	if c.flavor.TablesArgs != nil {
		args = c.flavor.TablesArgs(filter)
	}

	rows, err := c.db.QueryContext(ctx, c.flavor.TablesSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []database.TableRow
	for rows.Next() {
		var t database.TableRow
		if err := rows.Scan(&t.Name, &t.Schema, &t.Catalog, &t.Type); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		if matches(t, filter) {
			tables = append(tables, t)
		}
	}
	return tables, rows.Err()
}

func matches(t database.TableRow, f database.TableFilter) bool {
	switch {
	case f.Name != "" && t.Name != f.Name:
		return false
	case f.Catalog != "" && t.Catalog != f.Catalog:
		return false
	case f.Schema != "" && t.Schema != f.Schema:
		return false
	case f.Type != "" && !strings.EqualFold(t.Type, f.Type):
		return false
	}
	return true
}

// Columns returns the columns of one table or view.
func (c *Conn) Columns(ctx context.Context, name, catalog, schema string) ([]database.Column, error) {
	rows, err := c.db.QueryContext(ctx, c.flavor.ColumnsSQL, c.flavor.ColumnsArgs(name, catalog, schema)...)
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []database.Column
	for rows.Next() {
		var col database.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &col.OrdinalPos, &col.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.IsNullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ExecuteQuery runs a SQL query and returns at most rowLimit rows.
func (c *Conn) ExecuteQuery(ctx context.Context, query string, rowLimit int) (*database.QueryResult, error) {
	start := time.Now()

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var resultRows [][]string
	for len(resultRows) < rowLimit && rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = database.FormatValue(v)
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	c.logger.Debug("preview executed", slog.Int("rows", len(resultRows)), slog.Duration("took", time.Since(start)))
	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: time.Since(start),
	}, nil
}

// ApproxRowCount counts the rows of one table or view. These backends keep
// no cheap estimate, so the count is exact.
func (c *Conn) ApproxRowCount(ctx context.Context, catalog, schema, name string) (int64, error) {
	target := c.flavor.Quote(name)
	if schema != "" {
		target = c.flavor.Quote(schema) + "." + target
	}
	if catalog != "" {
		target = c.flavor.Quote(catalog) + "." + target
	}

	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+target).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", target, err)
	}
	return n, nil
}

// QuoteIdentifier quotes name with the flavor's rules.
func (c *Conn) QuoteIdentifier(name string) string {
	return c.flavor.Quote(name)
}

// Close closes the underlying database.
func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Conn) strings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
