package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dbscope/internal/metadata"
	"github.com/joacominatel/dbscope/internal/tui/theme"
)

// Kind identifies the role of a tree node.
type Kind int

const (
	KindRoot Kind = iota
	KindContainer
	KindObject
	KindColumn
)

// Key locates a node: the scope it lives in plus its own name and type.
// The root has the zero Key.
type Key struct {
	Catalog string
	Schema  string
	Name    string
	Type    string
}

// Filter returns the listing filter that enumerates the children of a
// container node.
func (k Key) Filter() metadata.ObjectFilter {
	return metadata.ObjectFilter{Catalog: k.Catalog, Schema: k.Schema}
}

// Ref returns the object reference of a table, view or other leaf node.
func (k Key) Ref() metadata.ObjectRef {
	var sel metadata.Selector
	switch k.Type {
	case metadata.TypeTable:
		sel.Table = k.Name
	case "view":
		sel.View = k.Name
	default:
		sel.Aliases = map[string]string{k.Type: k.Name}
	}
	return metadata.ObjectRef{Selector: sel, Catalog: k.Catalog, Schema: k.Schema}
}

// TreeNode represents a single node in the object tree.
type TreeNode struct {
	Kind     Kind
	Key      Key
	Label    string
	Icon     string
	DataType string // column type
	Children []*TreeNode
	Expanded bool
	Loaded   bool // whether children have been fetched
}

// flatItem is a visible item in the flattened tree view.
type flatItem struct {
	node   *TreeNode
	parent *TreeNode
	depth  int
}

// ExpandMsg asks the host to list the children of a container.
type ExpandMsg struct {
	Key    Key
	Filter metadata.ObjectFilter
}

// ColumnsMsg asks the host to list the columns of an object.
type ColumnsMsg struct {
	Key Key
	Ref metadata.ObjectRef
}

// PreviewMsg asks the host to preview an object.
type PreviewMsg struct {
	Key Key
	Ref metadata.ObjectRef
}

// Model is the explorer (object tree) component.
type Model struct {
	tree      *TreeNode
	hierarchy metadata.Children
	items     []flatItem
	cursor    int
	width     int
	height    int
	focused   bool
	loading   bool
}

// New creates a new explorer model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// Clear drops the tree.
func (m *Model) Clear() {
	m.tree = nil
	m.hierarchy = nil
	m.items = nil
	m.cursor = 0
	m.loading = false
}

// SetHierarchy sets the object-type hierarchy used to classify nodes.
func (m *Model) SetHierarchy(h metadata.Children) {
	m.hierarchy = h
}

// SetRoot replaces the tree with a root titled label holding objects.
func (m *Model) SetRoot(label string, objects []metadata.Object) {
	m.tree = &TreeNode{Kind: KindRoot, Label: label, Expanded: true, Loaded: true}
	m.tree.Children = m.nodes(Key{}, objects)
	m.loading = false
	m.flatten()
}

// SetChildren fills the container at key with objects.
func (m *Model) SetChildren(key Key, objects []metadata.Object) {
	if key == (Key{}) {
		label := ""
		if m.tree != nil {
			label = m.tree.Label
		}
		m.SetRoot(label, objects)
		return
	}
	if node := m.find(key); node != nil {
		node.Children = m.nodes(key, objects)
		node.Loaded = true
		m.flatten()
	}
}

// SetColumns adds column nodes to the object at key.
func (m *Model) SetColumns(key Key, columns []metadata.Column) {
	node := m.find(key)
	if node == nil {
		return
	}
	node.Children = nil
	for _, col := range columns {
		node.Children = append(node.Children, &TreeNode{
			Kind:     KindColumn,
			Key:      Key{Catalog: key.Catalog, Schema: key.Schema, Name: col.Name, Type: "column"},
			Label:    col.Name,
			DataType: col.Type,
		})
	}
	node.Loaded = true
	m.flatten()
}

// nodes classifies objects listed under parent using the hierarchy.
func (m *Model) nodes(parent Key, objects []metadata.Object) []*TreeNode {
	out := make([]*TreeNode, 0, len(objects))
	for _, o := range objects {
		key := Key{Catalog: parent.Catalog, Schema: parent.Schema, Name: o.Name, Type: o.Type}
		kind := KindObject
		icon := ""

		switch o.Type {
		case metadata.TypeCatalog:
			key = Key{Catalog: o.Name, Type: o.Type}
			kind = KindContainer
		case metadata.TypeSchema:
			key = Key{Catalog: parent.Catalog, Schema: o.Name, Type: o.Type}
			kind = KindContainer
		}
		if t, ok := m.hierarchy.Lookup(o.Type); ok {
			icon = t.Icon
			if !t.IsLeaf() {
				kind = KindContainer
			}
		}

		out = append(out, &TreeNode{Kind: kind, Key: key, Label: o.Name, Icon: icon})
	}
	return out
}

func (m *Model) find(key Key) *TreeNode {
	if m.tree == nil {
		return nil
	}
	var walk func(*TreeNode) *TreeNode
	walk = func(n *TreeNode) *TreeNode {
		if n.Kind != KindColumn && n.Key == key {
			return n
		}
		for _, c := range n.Children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(m.tree)
}

// Selected returns the object under the cursor; on a column, its object.
func (m Model) Selected() (Key, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Key{}, false
	}
	item := m.items[m.cursor]
	switch item.node.Kind {
	case KindObject:
		return item.node.Key, true
	case KindColumn:
		if item.parent != nil {
			return item.parent.Key, true
		}
	}
	return Key{}, false
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil {
		m.flattenNode(m.tree, nil, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node, parent *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, parent: parent, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, node, depth+1)
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			return m, m.toggleExpand()
		case "left", "h":
			return m, m.collapse()
		case "s":
			if key, ok := m.Selected(); ok {
				return m, func() tea.Msg { return PreviewMsg{Key: key, Ref: key.Ref()} }
			}
		}
	}

	return m, nil
}

func (m *Model) toggleExpand() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	if node.Kind == KindColumn {
		return nil
	}

	if node.Expanded {
		node.Expanded = false
		m.flatten()
		return nil
	}

	node.Expanded = true
	m.flatten()

	if node.Loaded {
		return nil
	}
	key := node.Key
	switch node.Kind {
	case KindContainer:
		return func() tea.Msg { return ExpandMsg{Key: key, Filter: key.Filter()} }
	case KindObject:
		return func() tea.Msg { return ColumnsMsg{Key: key, Ref: key.Ref()} }
	}
	return nil
}

func (m *Model) collapse() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	if node.Expanded {
		node.Expanded = false
		m.flatten()
	}
	return nil
}

// View renders the explorer.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Explorer")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.tree == nil {
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	visibleHeight := m.height - 2 // title + padding
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		item := m.items[i]
		line := m.renderNode(item, i == m.cursor)
		b.WriteString(line)
		if i < scrollOffset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	var icon string
	switch node.Kind {
	case KindColumn:
		icon = "  "
	default:
		if node.Expanded {
			icon = "▼ "
		} else {
			icon = "▶ "
		}
	}

	name := node.Label
	switch {
	case node.Kind == KindColumn && node.DataType != "":
		name = fmt.Sprintf("%s %s", node.Label, lipgloss.NewStyle().Foreground(theme.ColorMuted).Render(node.DataType))
	case node.Kind == KindObject && (node.Icon != "" || node.Key.Type != metadata.TypeTable):
		name = fmt.Sprintf("%s %s", node.Label, lipgloss.NewStyle().Foreground(theme.ColorSecondary).Render("("+node.Key.Type+")"))
	}

	line := indent + icon + name

	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		runes := []rune(line)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		line = string(runes) + ".."
	}

	if selected {
		return lipgloss.NewStyle().
			Foreground(theme.ColorHighlight).
			Bold(true).
			Render(line)
	}

	return line
}
