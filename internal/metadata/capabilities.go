package metadata

import (
	"context"
	"log/slog"

	"github.com/joacominatel/dbscope/internal/database"
)

// Capabilities describes the structure a backend exposes and the attributes
// used to identify the connection. Empty strings mean "not reported".
type Capabilities struct {
	TableTypes      []string
	SupportsSchema  bool
	SupportsCatalog bool
	ProductName     string
	Username        string
	DatabaseName    string
	ServerName      string
	SourceName      string
}

// CapabilitiesFrom combines connection attributes with probed table types.
func CapabilitiesFrom(info database.Info, tableTypes []string) Capabilities {
	return Capabilities{
		TableTypes:      tableTypes,
		SupportsSchema:  info.SupportsSchema,
		SupportsCatalog: info.SupportsCatalog,
		ProductName:     info.ProductName,
		Username:        info.Username,
		DatabaseName:    info.Database,
		ServerName:      info.Server,
		SourceName:      info.Source,
	}
}

// Probe reads the capabilities of conn. A failed table-type probe leaves
// TableTypes empty, so the hierarchy still offers plain tables.
func Probe(ctx context.Context, conn database.Conn, logger *slog.Logger) Capabilities {
	types, err := conn.TableTypes(ctx)
	if err != nil {
		logger.Debug("table type probe failed",
			slog.Any("error", probeError(ErrIntrospectionUnavailable, "table types", err)))
		types = nil
	}
	return CapabilitiesFrom(conn.Info(), types)
}
