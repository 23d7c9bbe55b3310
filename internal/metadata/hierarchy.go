package metadata

import (
	"encoding/json"
	"sort"
	"strings"
)

// ViewIcon is the icon hint attached to view-like object types.
const ViewIcon = "icons/view.png"

// Object type names that structure the hierarchy.
const (
	TypeCatalog = "catalog"
	TypeSchema  = "schema"
	TypeTable   = "table"
)

// Contents is what an object type holds: either Data (rows) or Children
// (nested object types). The set of implementations is closed.
type Contents interface {
	contents()
}

// Data marks an object type that holds rows.
type Data struct{}

func (Data) contents() {}

// MarshalJSON encodes Data as the string "data".
func (Data) MarshalJSON() ([]byte, error) {
	return []byte(`"data"`), nil
}

// Children maps object-type names to their definitions.
type Children map[string]ObjectType

func (Children) contents() {}

// ObjectType is one node of the object-type hierarchy.
type ObjectType struct {
	Contains Contents `json:"contains"`
	Icon     string   `json:"icon,omitempty"`
}

// IsLeaf reports whether the node holds rows.
func (o ObjectType) IsLeaf() bool {
	_, ok := o.Contains.(Data)
	return ok
}

// BuildHierarchy assembles the object-type tree for a backend. Tables are
// always present; every table type containing "view" becomes a sibling leaf.
// Schemas and catalogs wrap the leaves when the backend supports them.
func BuildHierarchy(c Capabilities) Children {
	h := Children{TypeTable: {Contains: Data{}}}
	for _, t := range c.TableTypes {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "view") {
			h[lower] = ObjectType{Contains: Data{}, Icon: ViewIcon}
		}
	}
	if c.SupportsSchema {
		h = Children{TypeSchema: {Contains: h}}
	}
	if c.SupportsCatalog {
		h = Children{TypeCatalog: {Contains: h}}
	}
	return h
}

// Levels returns the chain of container types from the root down to the
// leaves, e.g. ["catalog", "schema"]. A flat hierarchy has no levels.
func (h Children) Levels() []string {
	var levels []string
	cur := h
	for len(cur) == 1 {
		var next Children
		for name, node := range cur {
			if c, ok := node.Contains.(Children); ok {
				levels = append(levels, name)
				next = c
			}
		}
		if next == nil {
			break
		}
		cur = next
	}
	return levels
}

// Leaves returns the sorted names of the row-holding object types.
func (h Children) Leaves() []string {
	var names []string
	for name, node := range h {
		switch c := node.Contains.(type) {
		case Data:
			names = append(names, name)
		case Children:
			names = append(names, c.Leaves()...)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup finds an object type by name at any depth.
func (h Children) Lookup(name string) (ObjectType, bool) {
	if node, ok := h[name]; ok {
		return node, true
	}
	for _, node := range h {
		if c, ok := node.Contains.(Children); ok {
			if found, ok := c.Lookup(name); ok {
				return found, true
			}
		}
	}
	return ObjectType{}, false
}

// JSON returns the indented JSON form of the hierarchy.
func (h Children) JSON() (string, error) {
	b, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
