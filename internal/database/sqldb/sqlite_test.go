package sqldb_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/joacominatel/dbscope/internal/database"
	_ "github.com/joacominatel/dbscope/internal/database/sqldb"
	"github.com/joacominatel/dbscope/internal/metadata"
	"github.com/joacominatel/dbscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT NOT NULL, note TEXT)`,
		`INSERT INTO orders (customer, note) VALUES ('ada', NULL), ('bob', 'gift'), ('cy', 'rush')`,
		`CREATE VIEW big_orders AS SELECT id, customer FROM orders WHERE id > 1`,
	} {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func TestSQLite_EndToEnd(t *testing.T) {
	ctx := context.Background()
	path := seedSQLite(t)
	logger := testutil.NewTestLogger(t)

	conn, err := database.Open(ctx, database.Config{Driver: "sqlite", DSN: path, Source: ""}, logger)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	insp := metadata.NewInspector(conn, nil, logger)

	t.Run("hierarchy", func(t *testing.T) {
		h := insp.ObjectTypes(ctx)
		assert.Empty(t, h.Levels())
		assert.Equal(t, []string{"table", "view"}, h.Leaves())
	})

	t.Run("identity", func(t *testing.T) {
		caps := insp.Capabilities(ctx)
		assert.Equal(t, "shop.db", metadata.HostKey(caps))
		assert.Equal(t, "shop.db", metadata.DisplayName(caps))
	})

	t.Run("objects", func(t *testing.T) {
		objs, err := insp.Objects(ctx, metadata.ObjectFilter{})
		require.NoError(t, err)
		assert.Equal(t, []metadata.Object{
			{Name: "big_orders", Type: "view"},
			{Name: "orders", Type: "table"},
		}, objs)

		views, err := insp.Objects(ctx, metadata.ObjectFilter{Type: "VIEW"})
		require.NoError(t, err)
		assert.Equal(t, []metadata.Object{{Name: "big_orders", Type: "view"}}, views)
	})

	t.Run("columns", func(t *testing.T) {
		cols, err := insp.Columns(ctx, metadata.ObjectRef{Selector: metadata.Selector{Table: "orders"}})
		require.NoError(t, err)
		assert.Equal(t, []metadata.Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "customer", Type: "TEXT"},
			{Name: "note", Type: "TEXT"},
		}, cols)

		missing, err := insp.Columns(ctx, metadata.ObjectRef{Selector: metadata.Selector{View: "nope"}})
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("preview", func(t *testing.T) {
		res, err := insp.Preview(ctx, 2, metadata.ObjectRef{Selector: metadata.Selector{Table: "orders"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "customer", "note"}, res.Columns)
		assert.Equal(t, [][]string{{"1", "ada", "NULL"}, {"2", "bob", "gift"}}, res.Rows)

		none, err := insp.Preview(ctx, 0, metadata.ObjectRef{Selector: metadata.Selector{View: "big_orders"}})
		require.NoError(t, err)
		assert.Empty(t, none.Rows)
	})
}

func TestSQLite_PreviewNamesNeedingQuotes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "odd.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE "order items" (id INTEGER PRIMARY KEY, sku TEXT)`,
		`INSERT INTO "order items" (sku) VALUES ('a-1'), ('b-2')`,
		`CREATE TABLE "select" (id INTEGER)`,
		`INSERT INTO "select" (id) VALUES (7)`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	conn, err := database.Open(ctx, database.Config{Driver: "sqlite", DSN: path}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	insp := metadata.NewInspector(conn, nil, testutil.NewTestLogger(t))

	objs, err := insp.Objects(ctx, metadata.ObjectFilter{})
	require.NoError(t, err)
	require.Len(t, objs, 2)

	// names listed by Objects go straight back into Preview and Columns
	for _, o := range objs {
		t.Run(o.Name, func(t *testing.T) {
			ref := metadata.ObjectRef{Selector: metadata.Selector{Table: o.Name}}

			res, err := insp.Preview(ctx, 5, ref)
			require.NoError(t, err)
			assert.NotEmpty(t, res.Rows)

			cols, err := insp.Columns(ctx, ref)
			require.NoError(t, err)
			assert.NotEmpty(t, cols)
		})
	}
}
