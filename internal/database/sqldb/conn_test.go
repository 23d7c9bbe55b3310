package sqldb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T, flavor Flavor, dsn string) (*Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return New(db, flavor, database.Config{Driver: flavor.Name, DSN: dsn}, nil), mock
}

func TestNew_Info(t *testing.T) {
	tests := []struct {
		name   string
		flavor Flavor
		dsn    string
		want   database.Info
	}{
		{
			name:   "mysql",
			flavor: MySQL,
			dsn:    "app:pw@tcp(db1:3306)/shop",
			want:   database.Info{ProductName: "MySQL", Username: "app", Database: "shop", Server: "db1", SupportsSchema: true},
		},
		{
			name:   "mysql unparsable dsn",
			flavor: MySQL,
			dsn:    "garbage",
			want:   database.Info{ProductName: "MySQL", SupportsSchema: true},
		},
		{
			name:   "sqlite file",
			flavor: SQLite,
			dsn:    "file:/data/shop.db?_pragma=foreign_keys(1)",
			want:   database.Info{ProductName: "SQLite", Database: "shop.db"},
		},
		{
			name:   "duckdb memory",
			flavor: DuckDB,
			dsn:    "",
			want:   database.Info{ProductName: "DuckDB", Database: "memory", SupportsCatalog: true, SupportsSchema: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, tt.flavor, database.Config{DSN: tt.dsn}, nil)
			assert.Equal(t, tt.want, c.Info())
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`my``table`", New(nil, MySQL, database.Config{}, nil).QuoteIdentifier("my`table"))
	assert.Equal(t, `"my""table"`, New(nil, SQLite, database.Config{}, nil).QuoteIdentifier(`my"table`))
	assert.Equal(t, `"Orders"`, New(nil, DuckDB, database.Config{}, nil).QuoteIdentifier("Orders"))
}

func TestCatalogs_NoneWithoutQuery(t *testing.T) {
	c, _ := newMock(t, MySQL, "")
	cats, err := c.Catalogs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)

	c, _ = newMock(t, SQLite, "")
	schemas, err := c.Schemas(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestDuckDB_CatalogsAndSchemas(t *testing.T) {
	c, mock := newMock(t, DuckDB, "")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT catalog_name")).
		WillReturnRows(sqlmock.NewRows([]string{"catalog_name"}).AddRow("lake").AddRow("memory"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT schema_name")).
		WithArgs("lake", "lake").
		WillReturnRows(sqlmock.NewRows([]string{"schema_name"}).AddRow("main").AddRow("raw"))

	cats, err := c.Catalogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lake", "memory"}, cats)

	schemas, err := c.Schemas(context.Background(), "lake")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "raw"}, schemas)
}

func TestMySQL_Schemas(t *testing.T) {
	c, mock := newMock(t, MySQL, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.schemata")).
		WillReturnRows(sqlmock.NewRows([]string{"schema_name"}).AddRow("shop").AddRow("billing"))

	schemas, err := c.Schemas(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop", "billing"}, schemas)
}

func TestTables_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter database.TableFilter
		want   []string
	}{
		{"all", database.TableFilter{Schema: "shop"}, []string{"orders", "customers", "v_orders"}},
		{"type ignores case", database.TableFilter{Schema: "shop", Type: "view"}, []string{"v_orders"}},
		{"name", database.TableFilter{Schema: "shop", Name: "customers"}, []string{"customers"}},
		{"catalog never matches", database.TableFilter{Schema: "shop", Catalog: "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newMock(t, MySQL, "")
			mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.tables")).
				WithArgs(tt.filter.Schema, tt.filter.Schema).
				WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_schema", "catalog", "table_type"}).
					AddRow("orders", "shop", "", "TABLE").
					AddRow("customers", "shop", "", "TABLE").
					AddRow("v_orders", "shop", "", "VIEW"))

			tables, err := c.Tables(context.Background(), tt.filter)
			require.NoError(t, err)

			var names []string
			for _, tbl := range tables {
				names = append(names, tbl.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestTables_QueryError(t *testing.T) {
	c, mock := newMock(t, SQLite, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM sqlite_master")).WillReturnError(errors.New("disk I/O error"))

	_, err := c.Tables(context.Background(), database.TableFilter{})
	assert.ErrorContains(t, err, "list tables: disk I/O error")
}

func TestColumns(t *testing.T) {
	c, mock := newMock(t, MySQL, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "ordinal_position", "pk"}).
			AddRow("id", "int(11)", "NO", "", int64(1), true).
			AddRow("note", "text", "YES", "", int64(2), false))

	cols, err := c.Columns(context.Background(), "orders", "", "shop")
	require.NoError(t, err)
	assert.Equal(t, []database.Column{
		{Name: "id", DataType: "int(11)", OrdinalPos: 1, IsPrimary: true},
		{Name: "note", DataType: "text", IsNullable: true, OrdinalPos: 2},
	}, cols)
}

func TestDuckDB_ColumnArgs(t *testing.T) {
	c, mock := newMock(t, DuckDB, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("events", "raw", "raw", "lake", "lake").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position", "pk"}))

	cols, err := c.Columns(context.Background(), "events", "lake", "raw")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestExecuteQuery(t *testing.T) {
	c, mock := newMock(t, MySQL, "")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `orders` LIMIT 2")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "note"}).
			AddRow(int64(1), []byte("first")).
			AddRow(int64(2), nil).
			AddRow(int64(3), "third"))

	res, err := c.ExecuteQuery(context.Background(), "SELECT * FROM `orders` LIMIT 2", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "note"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "first"}, {"2", "NULL"}}, res.Rows)
	assert.Equal(t, 2, res.RowCount)
}

func TestExecuteQuery_Error(t *testing.T) {
	c, mock := newMock(t, MySQL, "")
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("access denied"))

	_, err := c.ExecuteQuery(context.Background(), "SELECT 1", 10)
	assert.ErrorContains(t, err, "execute: access denied")
}

func TestClose(t *testing.T) {
	c, mock := newMock(t, SQLite, "")
	mock.ExpectClose()
	assert.NoError(t, c.Close())

	assert.NoError(t, (&Conn{}).Close())
}

func TestFileDatabase(t *testing.T) {
	tests := map[string]string{
		"":                         "memory",
		":memory:":                 "memory",
		"/var/data/shop.db":        "shop.db",
		"file:lake.duckdb?mode=ro": "lake.duckdb",
	}
	for dsn, want := range tests {
		assert.Equal(t, want, fileDatabase(dsn), dsn)
	}
}

func TestRegistered(t *testing.T) {
	drivers := database.Drivers()
	for _, name := range []string{"mysql", "sqlite", "duckdb"} {
		assert.Contains(t, drivers, name)
	}
}

func TestApproxRowCount(t *testing.T) {
	tests := []struct {
		name    string
		flavor  Flavor
		catalog string
		schema  string
		want    string
	}{
		{"sqlite", SQLite, "", "", "SELECT COUNT(*) FROM \"orders\""},
		{"mysql", MySQL, "", "shop", "SELECT COUNT(*) FROM `shop`.`orders`"},
		{"duckdb", DuckDB, "lake", "raw", "SELECT COUNT(*) FROM \"lake\".\"raw\".\"orders\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newMock(t, tt.flavor, "")
			mock.ExpectQuery(regexp.QuoteMeta(tt.want)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

			n, err := c.ApproxRowCount(context.Background(), tt.catalog, tt.schema, "orders")
			require.NoError(t, err)
			assert.Equal(t, int64(42), n)
		})
	}
}

func TestApproxRowCount_Error(t *testing.T) {
	c, mock := newMock(t, SQLite, "")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnError(errors.New("no such table: nope"))

	_, err := c.ApproxRowCount(context.Background(), "", "", "nope")
	assert.ErrorContains(t, err, "no such table")
}
