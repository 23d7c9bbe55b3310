package metadata

import (
	"context"
	"fmt"

	"github.com/joacominatel/dbscope/internal/database"
)

// QualifiedName quotes name and prefixes it with the quoted schema and
// catalog, when set. Names come back from Objects raw, so they may need
// quoting even when unscoped.
func QualifiedName(conn database.Conn, catalog, schema, name string) string {
	name = conn.QuoteIdentifier(name)
	if schema != "" {
		name = conn.QuoteIdentifier(schema) + "." + name
	}
	if catalog != "" {
		name = conn.QuoteIdentifier(catalog) + "." + name
	}
	return name
}

// PreviewQuery builds the row-limited SELECT for the referenced object in
// the connection's dialect.
func (i *Inspector) PreviewQuery(rowLimit int, ref ObjectRef) (string, error) {
	if rowLimit < 0 {
		return "", &UsageError{Op: "preview", Reason: fmt.Sprintf("row limit %d is negative", rowLimit)}
	}
	name, _, err := ref.Resolve()
	if err != nil {
		return "", err
	}

	q := QualifiedName(i.conn, ref.Catalog, ref.Schema, name)
	sql, err := i.dialects.PreviewQuery(i.conn.Info().ProductName, q, rowLimit)
	if err != nil {
		return "", &UsageError{Op: "preview", Reason: err.Error(), Cause: err}
	}
	return sql, nil
}

// Preview runs the preview query and returns at most rowLimit rows.
// Execution errors are returned unchanged.
func (i *Inspector) Preview(ctx context.Context, rowLimit int, ref ObjectRef) (*database.QueryResult, error) {
	sql, err := i.PreviewQuery(rowLimit, ref)
	if err != nil {
		return nil, err
	}
	return i.conn.ExecuteQuery(ctx, sql, rowLimit)
}
