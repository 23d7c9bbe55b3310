package sqldb

import (
	"net"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joacominatel/dbscope/internal/database"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // SQLite driver (pure Go)
)

func init() {
	for _, f := range []Flavor{MySQL, SQLite, DuckDB} {
		database.Register(f.Name, Opener(f))
	}
}

// MySQL has no catalogs; its databases are reported as schemas.
var MySQL = Flavor{
	Name:           "mysql",
	DriverName:     "mysql",
	ProductName:    "MySQL",
	SupportsSchema: true,
	TableTypes:     []string{"TABLE", "VIEW", "SYSTEM VIEW"},

	SchemasSQL: `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY schema_name`,

	TablesSQL: `
		SELECT table_name, table_schema, '',
		       CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END
		FROM information_schema.tables
		WHERE (? = '' OR table_schema = ?)
		ORDER BY table_schema, table_name`,
	TablesArgs: func(f database.TableFilter) []any { return []any{f.Schema, f.Schema} },

	ColumnsSQL: `
		SELECT column_name, column_type, is_nullable, COALESCE(column_default, ''),
		       ordinal_position, column_key = 'PRI'
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name = ?
		ORDER BY ordinal_position`,
	ColumnsArgs: func(name, _, schema string) []any { return []any{schema, name} },

	Quote: func(name string) string {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	},
	Identify: func(dsn string) database.Info {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return database.Info{}
		}
		server := cfg.Addr
		if host, _, err := net.SplitHostPort(cfg.Addr); err == nil {
			server = host
		}
		return database.Info{Username: cfg.User, Database: cfg.DBName, Server: server}
	},
}

// SQLite has neither catalogs nor schemas.
var SQLite = Flavor{
	Name:        "sqlite",
	DriverName:  "sqlite",
	ProductName: "SQLite",
	TableTypes:  []string{"TABLE", "VIEW"},

	TablesSQL: `
		SELECT name, '', '', upper(type)
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`,

	ColumnsSQL: `
		SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END,
		       COALESCE(dflt_value, ''), cid + 1, pk > 0
		FROM pragma_table_info(?)
		ORDER BY cid`,
	ColumnsArgs: func(name, _, _ string) []any { return []any{name} },

	Quote: ansiQuote,
	OpenDSN: func(dsn string) string {
		if dsn == "" {
			return ":memory:"
		}
		return dsn
	},
	Identify: func(dsn string) database.Info {
		return database.Info{Database: fileDatabase(dsn)}
	},
}

// DuckDB exposes attached databases as catalogs.
var DuckDB = Flavor{
	Name:            "duckdb",
	DriverName:      "duckdb",
	ProductName:     "DuckDB",
	SupportsCatalog: true,
	SupportsSchema:  true,
	TableTypes:      []string{"TABLE", "VIEW", "LOCAL TEMPORARY"},

	CatalogsSQL: `
		SELECT DISTINCT catalog_name
		FROM information_schema.schemata
		WHERE catalog_name NOT IN ('system', 'temp')
		ORDER BY catalog_name`,

	SchemasSQL: `
		SELECT DISTINCT schema_name
		FROM information_schema.schemata
		WHERE (? = '' OR catalog_name = ?)
		  AND catalog_name NOT IN ('system', 'temp')
		  AND schema_name NOT IN ('information_schema', 'pg_catalog')
		ORDER BY schema_name`,
	SchemasArgs: func(catalog string) []any { return []any{catalog, catalog} },

	TablesSQL: `
		SELECT table_name, table_schema, table_catalog,
		       CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END
		FROM information_schema.tables
		WHERE (? = '' OR table_schema = ?)
		  AND table_catalog NOT IN ('system', 'temp')
		ORDER BY table_catalog, table_schema, table_name`,
	TablesArgs: func(f database.TableFilter) []any { return []any{f.Schema, f.Schema} },

	ColumnsSQL: `
		SELECT column_name, data_type, is_nullable, COALESCE(column_default, ''),
		       ordinal_position, false
		FROM information_schema.columns
		WHERE table_name = ?
		  AND (? = '' OR table_schema = ?)
		  AND (? = '' OR table_catalog = ?)
		ORDER BY ordinal_position`,
	ColumnsArgs: func(name, catalog, schema string) []any {
		return []any{name, schema, schema, catalog, catalog}
	},

	Quote: ansiQuote,
	Identify: func(dsn string) database.Info {
		return database.Info{Database: fileDatabase(dsn)}
	},
}

func ansiQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// fileDatabase names a file-backed database after its file.
func fileDatabase(dsn string) string {
	path, _, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")
	if path == "" || path == ":memory:" {
		return "memory"
	}
	return filepath.Base(path)
}
