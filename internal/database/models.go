package database

import "time"

// Info holds the connection attributes used for dialect dispatch and identity.
// Empty strings mean the attribute is not reported.
type Info struct {
	ProductName     string
	Username        string
	Database        string
	Server          string
	Source          string
	SupportsSchema  bool
	SupportsCatalog bool
}

// TableFilter narrows a table listing. Empty fields are not applied.
type TableFilter struct {
	Name    string
	Catalog string
	Schema  string
	Type    string
}

// TableRow is one table or view as reported by the backend.
type TableRow struct {
	Name    string
	Schema  string
	Catalog string
	Type    string
}

// Column represents a column with its raw backend type.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	Default    string
	OrdinalPos int
	IsPrimary  bool
}

// QueryResult holds the result of a SQL query execution.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Duration time.Duration
}
