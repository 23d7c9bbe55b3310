// Package metadata discovers the structure of an arbitrary relational backend
// and presents it generically: an object-type hierarchy, object and column
// listings, row-limited previews and connection identity strings.
//
// Everything here is derived from the live connection on each call. Missing
// features (no catalogs, no schemas, an unknown table) degrade to empty
// results; only malformed requests and hard collaborator failures surface as
// errors.
package metadata

import (
	"context"
	"log/slog"

	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/dialect"
)

// Inspector binds the metadata operations to one connection.
// It holds no state of its own and is safe to re-enter from callbacks.
type Inspector struct {
	conn     database.Conn
	dialects *dialect.Registry
	logger   *slog.Logger
}

// NewInspector creates an inspector for conn. A nil registry uses
// dialect.Builtin(); a nil logger discards output.
func NewInspector(conn database.Conn, dialects *dialect.Registry, logger *slog.Logger) *Inspector {
	if dialects == nil {
		dialects = dialect.Builtin()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{conn: conn, dialects: dialects, logger: logger}
}

// Capabilities probes the connection.
func (i *Inspector) Capabilities(ctx context.Context) Capabilities {
	return Probe(ctx, i.conn, i.logger)
}

// ObjectTypes returns the object-type hierarchy of the connection.
func (i *Inspector) ObjectTypes(ctx context.Context) Children {
	return BuildHierarchy(i.Capabilities(ctx))
}

// Dialect returns the dialect matching the connection's product name.
func (i *Inspector) Dialect() dialect.Dialect {
	return i.dialects.Lookup(i.conn.Info().ProductName)
}
