package postgres

// SQL queries for PostgreSQL metadata introspection.
const (
	queryCurrentDatabase = `SELECT current_database()`

	queryListSchemas = `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		  AND schema_name NOT LIKE 'pg_temp_%'
		  AND schema_name NOT LIKE 'pg_toast_temp_%'
		ORDER BY schema_name`

	// Empty parameters match everything; the type filter ignores case.
	queryListTables = `
		SELECT table_name, table_schema, table_catalog, table_type
		FROM (
			SELECT table_name::text,
			       table_schema::text,
			       table_catalog::text,
			       CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type::text END AS table_type
			FROM information_schema.tables
			UNION ALL
			SELECT matviewname::text, schemaname::text, current_database()::text, 'MATERIALIZED VIEW'
			FROM pg_matviews
		) t
		WHERE ($1::text = '' OR table_name = $1)
		  AND ($2::text = '' OR table_catalog = $2)
		  AND ($3::text = '' OR table_schema = $3)
		  AND ($4::text = '' OR upper(table_type) = upper($4))
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`

	// pg_attribute rather than information_schema.columns, which leaves out
	// materialized views.
	queryGetColumns = `
		SELECT
			a.attname::text,
			format_type(a.atttypid, a.atttypmod),
			CASE WHEN a.attnotnull THEN 'NO' ELSE 'YES' END,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			a.attnum::int,
			COALESCE(i.indisprimary, false)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		LEFT JOIN pg_index i ON i.indrelid = a.attrelid AND i.indisprimary AND a.attnum = ANY(i.indkey)
		WHERE n.nspname = COALESCE(NULLIF($1::text, ''), current_schema())
		  AND c.relname = $2
		  AND c.relkind IN ('r', 'p', 'v', 'm', 'f')
		  AND a.attnum > 0
		  AND NOT a.attisdropped
		ORDER BY a.attnum`

	queryTableRowCount = `
		SELECT COALESCE(reltuples, 0)::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relname = $1
		  AND n.nspname = COALESCE(NULLIF($2::text, ''), current_schema())`
)
