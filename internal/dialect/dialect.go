// Package dialect maps backend product names to SQL dialect strategies.
//
// A dialect here is narrowed to the behavior the metadata layer needs from a
// backend: how to limit the rows of a preview query, and which icon hint the
// tooling host should show for the connection. Lookup normalizes the product
// name reported by the driver and resolves it through an explicit alias table;
// anything unknown falls back to the default dialect.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ID identifies a dialect.
type ID string

// Known dialects.
const (
	Default   ID = "default"
	SQLServer ID = "sqlserver"
	Teradata  ID = "teradata"
	Oracle    ID = "oracle"
)

// ErrInvalidRowLimit is returned when a preview row limit is negative.
var ErrInvalidRowLimit = errors.New("row limit must be a non-negative whole number")

// PreviewFunc renders a query returning at most rowLimit rows of qualifiedName.
type PreviewFunc func(qualifiedName string, rowLimit int) string

// Dialect is the strategy bound to one backend family.
type Dialect struct {
	ID      ID
	Icon    string
	Preview PreviewFunc
}

// LimitPreview renders SELECT ... LIMIT n.
func LimitPreview(qualifiedName string, rowLimit int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", qualifiedName, rowLimit)
}

// TopPreview renders SELECT TOP n ....
func TopPreview(qualifiedName string, rowLimit int) string {
	return fmt.Sprintf("SELECT TOP %d * FROM %s", rowLimit, qualifiedName)
}

// RownumPreview renders SELECT ... WHERE ROWNUM <= n.
func RownumPreview(qualifiedName string, rowLimit int) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE ROWNUM <= %d", qualifiedName, rowLimit)
}

// Normalize lowercases a product name and collapses its whitespace.
func Normalize(product string) string {
	return strings.Join(strings.Fields(strings.ToLower(product)), " ")
}

// Registry resolves product names to dialects. It is read-only once built.
type Registry struct {
	fallback Dialect
	dialects map[ID]Dialect
	aliases  map[string]ID
}

// NewRegistry creates a registry whose unknown products resolve to fallback.
func NewRegistry(fallback Dialect) *Registry {
	return &Registry{
		fallback: fallback,
		dialects: map[ID]Dialect{fallback.ID: fallback},
		aliases:  map[string]ID{},
	}
}

// With adds a dialect reachable through the given product names and returns
// the registry for chaining. It is meant to be used while building a registry.
func (r *Registry) With(d Dialect, products ...string) *Registry {
	r.dialects[d.ID] = d
	r.aliases[Normalize(string(d.ID))] = d.ID
	for _, p := range products {
		r.aliases[Normalize(p)] = d.ID
	}
	return r
}

// Builtin returns the registry with every dialect known to dbscope.
func Builtin() *Registry {
	return NewRegistry(Dialect{ID: Default, Preview: LimitPreview}).
		With(Dialect{ID: SQLServer, Preview: TopPreview}, "Microsoft SQL Server").
		With(Dialect{ID: Teradata, Preview: TopPreview}, "Teradata").
		With(Dialect{ID: Oracle, Preview: RownumPreview}, "Oracle")
}

// Resolve returns the dialect id for a product name.
func (r *Registry) Resolve(product string) ID {
	if id, ok := r.aliases[Normalize(product)]; ok {
		return id
	}
	return r.fallback.ID
}

// Lookup returns the dialect for a product name, or the fallback dialect.
func (r *Registry) Lookup(product string) Dialect {
	return r.dialects[r.Resolve(product)]
}

// PreviewQuery renders the row-limited preview query for product.
func (r *Registry) PreviewQuery(product, qualifiedName string, rowLimit int) (string, error) {
	if rowLimit < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidRowLimit, rowLimit)
	}
	return r.Lookup(product).Preview(qualifiedName, rowLimit), nil
}

// IDs returns the ids of all registered dialects (sorted).
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.dialects))
	for id := range r.dialects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
