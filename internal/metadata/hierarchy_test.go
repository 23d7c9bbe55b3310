package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHierarchy(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want Children
	}{
		{
			name: "flat without types",
			caps: Capabilities{},
			want: Children{"table": {Contains: Data{}}},
		},
		{
			name: "flat with views",
			caps: Capabilities{TableTypes: []string{"TABLE", "VIEW", "SYSTEM TABLE"}},
			want: Children{
				"table": {Contains: Data{}},
				"view":  {Contains: Data{}, Icon: ViewIcon},
			},
		},
		{
			name: "schema only",
			caps: Capabilities{
				TableTypes:     []string{"TABLE", "VIEW", "MATERIALIZED VIEW"},
				SupportsSchema: true,
			},
			want: Children{
				"schema": {Contains: Children{
					"table":             {Contains: Data{}},
					"view":              {Contains: Data{}, Icon: ViewIcon},
					"materialized view": {Contains: Data{}, Icon: ViewIcon},
				}},
			},
		},
		{
			name: "catalog and schema",
			caps: Capabilities{
				TableTypes:      []string{"TABLE", "View", "INDEXED VIEW"},
				SupportsSchema:  true,
				SupportsCatalog: true,
			},
			want: Children{
				"catalog": {Contains: Children{
					"schema": {Contains: Children{
						"table":        {Contains: Data{}},
						"view":         {Contains: Data{}, Icon: ViewIcon},
						"indexed view": {Contains: Data{}, Icon: ViewIcon},
					}},
				}},
			},
		},
		{
			name: "catalog only",
			caps: Capabilities{SupportsCatalog: true},
			want: Children{
				"catalog": {Contains: Children{"table": {Contains: Data{}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildHierarchy(tt.caps)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, BuildHierarchy(tt.caps), "idempotent")
		})
	}
}

func TestBuildHierarchy_FlatHasNoContainers(t *testing.T) {
	h := BuildHierarchy(Capabilities{TableTypes: []string{"TABLE", "VIEW"}})

	assert.NotContains(t, h, "catalog")
	assert.NotContains(t, h, "schema")
	assert.Empty(t, h.Levels())
	for name, node := range h {
		assert.True(t, node.IsLeaf(), name)
	}
}

func TestChildren_Navigation(t *testing.T) {
	h := BuildHierarchy(Capabilities{
		TableTypes:      []string{"TABLE", "VIEW", "MATERIALIZED VIEW"},
		SupportsSchema:  true,
		SupportsCatalog: true,
	})

	assert.Equal(t, []string{"catalog", "schema"}, h.Levels())
	assert.Equal(t, []string{"materialized view", "table", "view"}, h.Leaves())

	node, ok := h.Lookup("materialized view")
	require.True(t, ok)
	assert.True(t, node.IsLeaf())
	assert.Equal(t, ViewIcon, node.Icon)

	node, ok = h.Lookup("schema")
	require.True(t, ok)
	assert.False(t, node.IsLeaf())

	_, ok = h.Lookup("index")
	assert.False(t, ok)
}

func TestChildren_JSON(t *testing.T) {
	h := BuildHierarchy(Capabilities{TableTypes: []string{"VIEW"}, SupportsSchema: true})

	got, err := h.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"schema": {"contains": {
			"table": {"contains": "data"},
			"view":  {"contains": "data", "icon": "icons/view.png"}
		}}
	}`, got)
}
