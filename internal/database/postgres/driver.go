package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joacominatel/dbscope/internal/database"
)

// ProductName is the product reported for PostgreSQL connections.
const ProductName = "PostgreSQL"

// tableTypes lists the relation kinds reported by Tables.
var tableTypes = []string{"TABLE", "VIEW", "MATERIALIZED VIEW", "FOREIGN"}

func init() {
	database.Register("postgres", Open)
	database.Register("postgresql", Open)
}

// Conn implements database.Conn for PostgreSQL.
type Conn struct {
	pool   *pgxpool.Pool
	info   database.Info
	logger *slog.Logger
}

var (
	_ database.Conn       = (*Conn)(nil)
	_ database.RowCounter = (*Conn)(nil)
)

// Open establishes a connection pool to PostgreSQL.
func Open(ctx context.Context, cfg database.Config, logger *slog.Logger) (database.Conn, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	info := infoFromConfig(poolCfg, cfg.Source)
	logger.Debug("pool ready", slog.String("database", info.Database), slog.String("host", info.Server))
	return &Conn{pool: pool, info: info, logger: logger}, nil
}

func infoFromConfig(cfg *pgxpool.Config, source string) database.Info {
	return database.Info{
		ProductName:     ProductName,
		Username:        cfg.ConnConfig.User,
		Database:        cfg.ConnConfig.Database,
		Server:          cfg.ConnConfig.Host,
		Source:          source,
		SupportsSchema:  true,
		SupportsCatalog: true,
	}
}

// Info returns the connection attributes.
func (c *Conn) Info() database.Info {
	return c.info
}

// TableTypes returns the relation kinds PostgreSQL supports.
func (c *Conn) TableTypes(_ context.Context) ([]string, error) {
	return append([]string(nil), tableTypes...), nil
}

// Catalogs returns the connected database; PostgreSQL cannot cross databases.
func (c *Conn) Catalogs(ctx context.Context) ([]string, error) {
	var name string
	if err := c.pool.QueryRow(ctx, queryCurrentDatabase).Scan(&name); err != nil {
		return nil, fmt.Errorf("current database: %w", err)
	}
	return []string{name}, nil
}

// Schemas returns all user-created schemas.
func (c *Conn) Schemas(ctx context.Context, catalog string) ([]string, error) {
	if catalog != "" && catalog != c.info.Database {
		return nil, nil
	}
	rows, err := c.pool.Query(ctx, queryListSchemas)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// Tables returns the tables, views and materialized views matching filter.
func (c *Conn) Tables(ctx context.Context, filter database.TableFilter) ([]database.TableRow, error) {
	rows, err := c.pool.Query(ctx, queryListTables, filter.Name, filter.Catalog, filter.Schema, filter.Type)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []database.TableRow
	for rows.Next() {
		var t database.TableRow
		if err := rows.Scan(&t.Name, &t.Schema, &t.Catalog, &t.Type); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Columns returns column metadata for a table or view. An empty schema means
// the session's current schema.
func (c *Conn) Columns(ctx context.Context, name, _, schema string) ([]database.Column, error) {
	rows, err := c.pool.Query(ctx, queryGetColumns, schema, name)
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}
	defer rows.Close()

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

// ApproxRowCount returns the approximate row count using pg_class statistics.
func (c *Conn) ApproxRowCount(ctx context.Context, _, schema, name string) (int64, error) {
	var count int64
	err := c.pool.QueryRow(ctx, queryTableRowCount, name, schema).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("row count: %w", err)
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

// ExecuteQuery runs a SQL query and returns at most rowLimit rows.
func (c *Conn) ExecuteQuery(ctx context.Context, query string, rowLimit int) (*database.QueryResult, error) {
	start := time.Now()

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var resultRows [][]string
	for len(resultRows) < rowLimit && rows.Next() {
		values, err := rows.Values()
		if err != nil {
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

// QuoteIdentifier quotes name as a PostgreSQL identifier.
func (c *Conn) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Close closes the connection pool.
func (c *Conn) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
