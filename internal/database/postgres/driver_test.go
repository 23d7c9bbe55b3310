package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoFromConfig(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgresql://alice:pw@db.internal:5433/sales?sslmode=disable")
	require.NoError(t, err)

	assert.Equal(t, database.Info{
		ProductName:     "PostgreSQL",
		Username:        "alice",
		Database:        "sales",
		Server:          "db.internal",
		Source:          "SALES",
		SupportsSchema:  true,
		SupportsCatalog: true,
	}, infoFromConfig(cfg, "SALES"))
}

func TestQuoteIdentifier(t *testing.T) {
	c := &Conn{}
	tests := map[string]string{
		"orders":     `"orders"`,
		"Mixed Case": `"Mixed Case"`,
		`we"ird`:     `"we""ird"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, c.QuoteIdentifier(in))
	}
}

func TestTableTypes(t *testing.T) {
	c := &Conn{}
	types, err := c.TableTypes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, types, "MATERIALIZED VIEW")

	types[0] = "mutated"
	again, _ := c.TableTypes(context.Background())
	assert.Equal(t, "TABLE", again[0])
}

func TestSchemas_OtherCatalogIsEmpty(t *testing.T) {
	c := &Conn{info: database.Info{Database: "sales"}}
	schemas, err := c.Schemas(context.Background(), "elsewhere")
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, database.Drivers(), "postgres")
	assert.Contains(t, database.Drivers(), "postgresql")
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(context.Background(), database.Config{Driver: "postgres", DSN: "postgres://%zz"}, nil)
	assert.ErrorContains(t, err, "parse dsn")
}

func TestColumnsQuery_CoversListedKinds(t *testing.T) {
	// relkinds behind the table types reported by TableTypes
	kinds := map[string]string{
		"TABLE":             "'r'",
		"VIEW":              "'v'",
		"MATERIALIZED VIEW": "'m'",
		"FOREIGN":           "'f'",
	}
	for _, typ := range tableTypes {
		kind, ok := kinds[typ]
		require.True(t, ok, typ)
		assert.Contains(t, queryGetColumns, kind, typ)
	}
	assert.NotContains(t, queryGetColumns, "information_schema.columns")
}
