// Package databasetest provides an in-memory database.Conn for tests.
package databasetest

import (
	"context"
	"strings"

	"github.com/joacominatel/dbscope/internal/database"
)

// Conn is a scripted database.Conn. Zero values report nothing and never fail.
type Conn struct {
	Attrs database.Info

	Types   []string
	CatList []string
	// SchemaList maps a catalog ("" for unscoped) to its schemas.
	SchemaList map[string][]string
	TableList  []database.TableRow
	// ColumnList maps a table or view name to its columns.
	ColumnList map[string][]database.Column
	Result     *database.QueryResult

	// OnTableTypes, when set, runs at the start of TableTypes.
	OnTableTypes func()

	TableTypesErr error
	CatalogsErr   error
	SchemasErr    error
	TablesErr     error
	ColumnsErr    error
	QueryErr      error

	// Calls records every method invocation by name, in order.
	Calls []string
	// Queries records the SQL passed to ExecuteQuery.
	Queries []string
	// ColumnArgs records the arguments of the last Columns call.
	ColumnArgs []string
	// LastFilter is the filter of the last Tables call.
	LastFilter database.TableFilter
	Closed     int
}

var _ database.Conn = (*Conn)(nil)

func (c *Conn) Info() database.Info {
	c.Calls = append(c.Calls, "Info")
	return c.Attrs
}

func (c *Conn) TableTypes(_ context.Context) ([]string, error) {
	c.Calls = append(c.Calls, "TableTypes")
	if c.OnTableTypes != nil {
		c.OnTableTypes()
	}
	if c.TableTypesErr != nil {
		return nil, c.TableTypesErr
	}
	return c.Types, nil
}

func (c *Conn) Catalogs(_ context.Context) ([]string, error) {
	c.Calls = append(c.Calls, "Catalogs")
	if c.CatalogsErr != nil {
		return nil, c.CatalogsErr
	}
	return c.CatList, nil
}

func (c *Conn) Schemas(_ context.Context, catalog string) ([]string, error) {
	c.Calls = append(c.Calls, "Schemas")
	if c.SchemasErr != nil {
		return nil, c.SchemasErr
	}
	return c.SchemaList[catalog], nil
}

func (c *Conn) Tables(_ context.Context, filter database.TableFilter) ([]database.TableRow, error) {
	c.Calls = append(c.Calls, "Tables")
	c.LastFilter = filter
	if c.TablesErr != nil {
		return nil, c.TablesErr
	}
	var out []database.TableRow
	for _, t := range c.TableList {
		if filter.Name != "" && t.Name != filter.Name {
			continue
		}
		if filter.Catalog != "" && t.Catalog != filter.Catalog {
			continue
		}
		if filter.Schema != "" && t.Schema != filter.Schema {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(t.Type, filter.Type) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Conn) Columns(_ context.Context, name, catalog, schema string) ([]database.Column, error) {
	c.Calls = append(c.Calls, "Columns")
	c.ColumnArgs = []string{name, catalog, schema}
	if c.ColumnsErr != nil {
		return nil, c.ColumnsErr
	}
	return c.ColumnList[name], nil
}

func (c *Conn) ExecuteQuery(_ context.Context, query string, rowLimit int) (*database.QueryResult, error) {
	c.Calls = append(c.Calls, "ExecuteQuery")
	c.Queries = append(c.Queries, query)
	if c.QueryErr != nil {
		return nil, c.QueryErr
	}
	if c.Result == nil {
		return &database.QueryResult{}, nil
	}
	res := *c.Result
	if len(res.Rows) > rowLimit {
		res.Rows = res.Rows[:rowLimit]
	}
	res.RowCount = len(res.Rows)
	return &res, nil
}

// QuoteIdentifier uses ANSI double quotes.
func (c *Conn) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (c *Conn) Close() error {
	c.Calls = append(c.Calls, "Close")
	c.Closed++
	return nil
}

// Called reports whether method was invoked at least once.
func (c *Conn) Called(method string) bool {
	for _, m := range c.Calls {
		if m == method {
			return true
		}
	}
	return false
}
