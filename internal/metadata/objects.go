package metadata

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joacominatel/dbscope/internal/database"
)

// Object is one concrete catalog, schema, table or view.
type Object struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ObjectFilter selects the level to enumerate. Empty fields are unset.
type ObjectFilter struct {
	Catalog string
	Schema  string
	Name    string
	Type    string
}

// Objects lists the objects under filter. Without a catalog, the backend's
// catalogs are returned if it has any; without a schema, its schemas are
// returned if it has any; otherwise tables and views matching the filter.
// Failed probes and lookups fall through or yield an empty list. Only a
// cancelled context is returned as an error.
func (i *Inspector) Objects(ctx context.Context, filter ObjectFilter) ([]Object, error) {
	if filter.Catalog == "" {
		catalogs, err := i.conn.Catalogs(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			i.recovered(ErrIntrospectionUnavailable, "catalogs", err)
		}
		if len(catalogs) > 0 {
			return named(catalogs, TypeCatalog), nil
		}
	}

	if filter.Schema == "" {
		schemas, err := i.conn.Schemas(ctx, filter.Catalog)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			i.recovered(ErrIntrospectionUnavailable, "schemas", err)
		}
		if len(schemas) > 0 {
			return named(schemas, TypeSchema), nil
		}
	}

	rows, err := i.conn.Tables(ctx, database.TableFilter{
		Name:    filter.Name,
		Catalog: filter.Catalog,
		Schema:  filter.Schema,
		Type:    filter.Type,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		i.recovered(ErrObjectLookup, "tables", err)
		return []Object{}, nil
	}

	objects := make([]Object, 0, len(rows))
	for _, r := range rows {
		objects = append(objects, Object{Name: r.Name, Type: strings.ToLower(r.Type)})
	}
	return objects, nil
}

func (i *Inspector) recovered(kind error, what string, cause error) {
	i.logger.Debug("recovered introspection failure", slog.Any("error", probeError(kind, what, cause)))
}

func named(names []string, typ string) []Object {
	objects := make([]Object, len(names))
	for n, name := range names {
		objects[n] = Object{Name: name, Type: typ}
	}
	return objects
}
