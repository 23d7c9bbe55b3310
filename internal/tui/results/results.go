package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/tui/theme"
)

const maxColWidth = 40

// Model is the preview results component.
type Model struct {
	result    *database.QueryResult
	title     string
	err       error
	width     int
	height    int
	focused   bool
	loading   bool
	colWidths []int

	// cell cursor
	cursorX int
	cursorY int
	scrollY int

	exportDir     string
	statusMessage string
}

// New creates a new results model. Exports are written to exportDir, or the
// working directory when empty.
func New(exportDir string) Model {
	return Model{exportDir: exportDir}
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

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetResult sets the preview to display under title.
func (m *Model) SetResult(title string, r *database.QueryResult) {
	m.title = title
	m.result = r
	m.err = nil
	m.cursorX, m.cursorY, m.scrollY = 0, 0, 0
	m.loading = false
	m.calculateColumnWidths()
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.result = nil
	m.cursorX, m.cursorY, m.scrollY = 0, 0, 0
	m.loading = false
}

// Clear resets the pane.
func (m *Model) Clear() {
	m.result = nil
	m.err = nil
	m.title = ""
	m.colWidths = nil
	m.loading = false
}

// TakeStatus returns and clears the pending status message.
func (m *Model) TakeStatus() string {
	s := m.statusMessage
	m.statusMessage = ""
	return s
}

func (m *Model) calculateColumnWidths() {
	if m.result == nil || len(m.result.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.result.Columns))

	// display width, not byte length
	for i, col := range m.result.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}

	for _, row := range m.result.Rows {
		for i, cell := range row {
			w := lipgloss.Width(cell)
			if i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}

	for i := range m.colWidths {
		m.colWidths[i] = min(max(m.colWidths[i], 1), maxColWidth)
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || m.result == nil {
		return m, nil
	}

	rows := len(m.result.Rows)
	cols := len(m.result.Columns)

	switch key.String() {
	case "up", "k":
		if m.cursorY > 0 {
			m.cursorY--
		}
	case "down", "j":
		if m.cursorY < rows-1 {
			m.cursorY++
		}
	case "left", "h":
		if m.cursorX > 0 {
			m.cursorX--
		}
	case "right", "l":
		if m.cursorX < cols-1 {
			m.cursorX++
		}
	case "home", "g":
		m.cursorY = 0
	case "end", "G":
		m.cursorY = max(rows-1, 0)
	case "pgup":
		m.cursorY = max(m.cursorY-m.visibleRows(), 0)
	case "pgdown":
		m.cursorY = max(min(m.cursorY+m.visibleRows(), rows-1), 0)
	case "y":
		m.doCopyCell()
	case "Y":
		m.doCopyRowJSON()
	case "c":
		m.doCopyRowCSV()
	case "e":
		return m, m.exportCSVCmd()
	case "E":
		return m, m.exportJSONCmd()
	}

	m.scroll()
	return m, nil
}

func (m Model) visibleRows() int {
	return max(m.height-4, 1)
}

func (m *Model) scroll() {
	visible := m.visibleRows()
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+visible {
		m.scrollY = m.cursorY - visible + 1
	}
}

// View renders the results pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := "Preview"
	if m.title != "" {
		title += " " + m.title
	}

	if m.loading {
		return titleStyle.Render(title) + "\n" + theme.StyleMuted.Render("  Loading rows...")
	}

	if m.err != nil {
		return titleStyle.Render(title) + "\n" +
			theme.StyleError.Render("  Error: "+m.err.Error())
	}

	if m.result == nil {
		return titleStyle.Render(title) + "\n" +
			theme.StyleMuted.Render("  Select a table or view and press s to preview it")
	}

	stats := fmt.Sprintf("%d row(s) | %s",
		m.result.RowCount,
		m.result.Duration.Round(1000).String(),
	)
	header := titleStyle.Render(title) + "  " + theme.StyleMuted.Render(stats)

	if len(m.result.Columns) == 0 {
		return header + "\n" + theme.StyleMuted.Render("  No columns")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderRow(m.result.Columns, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())
	b.WriteString("\n")

	visible := m.visibleRows()
	for i := m.scrollY; i < len(m.result.Rows) && i < m.scrollY+visible; i++ {
		b.WriteString(m.renderRow(m.result.Rows[i], i))
		if i < m.scrollY+visible-1 && i < len(m.result.Rows)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderRow renders one row; rowIdx -1 is the header.
func (m Model) renderRow(cells []string, rowIdx int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := 10
		if i < len(m.colWidths) {
			width = max(m.colWidths[i], 1)
		}

		display := truncateCell(cell, width)
		if pad := width - lipgloss.Width(display); pad > 0 {
			display += strings.Repeat(" ", pad)
		}

		switch {
		case rowIdx < 0:
			parts[i] = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(display)
		case m.focused && rowIdx == m.cursorY && i == m.cursorX:
			parts[i] = lipgloss.NewStyle().Reverse(true).Render(display)
		case cell == database.NullString:
			parts[i] = theme.StyleMuted.Render(display)
		default:
			parts[i] = display
		}
	}
	return "  " + strings.Join(parts, " │ ")
}

func truncateCell(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		parts[i] = strings.Repeat("─", max(w, 1))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
