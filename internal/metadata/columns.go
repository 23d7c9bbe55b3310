package metadata

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Column is a column name with its backend type.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Selector names exactly one object. Table and View are the standard kinds;
// Aliases carries backend-specific view-like kinds such as
// {"materialized view": "mv_sales"}.
type Selector struct {
	Table   string
	View    string
	Aliases map[string]string
}

// Resolve returns the selected object name and its kind. Any count of
// populated fields other than one is a usage error.
func (s Selector) Resolve() (name, kind string, err error) {
	var set []string
	if s.Table != "" {
		name, kind = s.Table, TypeTable
		set = append(set, TypeTable)
	}
	if s.View != "" {
		name, kind = s.View, "view"
		set = append(set, "view")
	}
	for k, v := range s.Aliases {
		if v != "" {
			name, kind = v, strings.ToLower(k)
			set = append(set, k)
		}
	}

	switch len(set) {
	case 1:
		return name, kind, nil
	case 0:
		return "", "", &UsageError{Op: "select object", Reason: "exclusive selector violated: no object named"}
	default:
		sort.Strings(set)
		return "", "", &UsageError{
			Op:     "select object",
			Reason: fmt.Sprintf("exclusive selector violated: %s all set", strings.Join(set, ", ")),
		}
	}
}

// ObjectRef is a selected object with optional catalog and schema scope.
type ObjectRef struct {
	Selector
	Catalog string
	Schema  string
}

// Columns lists the columns of the referenced object. The selector is
// validated before any I/O; a failed lookup yields an empty list.
func (i *Inspector) Columns(ctx context.Context, ref ObjectRef) ([]Column, error) {
	name, _, err := ref.Resolve()
	if err != nil {
		return nil, err
	}

	cols, err := i.conn.Columns(ctx, name, ref.Catalog, ref.Schema)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		i.recovered(ErrObjectLookup, "columns of "+name, err)
		return []Column{}, nil
	}

	out := make([]Column, len(cols))
	for n, c := range cols {
		out[n] = Column{Name: c.Name, Type: c.DataType}
	}
	return out, nil
}
