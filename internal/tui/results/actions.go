package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/dbscope/internal/database"
)

// StatusNotifyMsg tells the app to show a message in the status bar.
type StatusNotifyMsg struct {
	Message string
}

// writeClipboard is swapped in tests; headless machines have no clipboard.
var writeClipboard = clipboard.WriteAll

func (m Model) currentRow() ([]string, bool) {
	if m.result == nil || m.cursorY < 0 || m.cursorY >= len(m.result.Rows) {
		return nil, false
	}
	return m.result.Rows[m.cursorY], true
}

func (m Model) cellValue() (string, bool) {
	row, ok := m.currentRow()
	if !ok || m.cursorX < 0 || m.cursorX >= len(row) {
		return "", false
	}
	return row[m.cursorX], true
}

func (m *Model) copy(text, done string) {
	if err := writeClipboard(text); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = done
}

func (m *Model) doCopyCell() {
	val, ok := m.cellValue()
	if !ok {
		m.statusMessage = "Nothing to copy"
		return
	}
	m.copy(val, "Copied: "+truncateStatus(val, 40))
}

func (m *Model) doCopyRowJSON() {
	row, ok := m.currentRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	m.copy(rowToJSON(m.result.Columns, row), "Copied row as JSON")
}

func (m *Model) doCopyRowCSV() {
	row, ok := m.currentRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(m.result.Columns)
	_ = w.Write(row)
	w.Flush()
	m.copy(b.String(), "Copied row as CSV")
}

func (m Model) exportPath(ext string) string {
	name := fmt.Sprintf("dbscope_export_%s.%s", time.Now().Format("20060102_150405"), ext)
	return filepath.Join(m.exportDir, name)
}

func (m Model) exportJSONCmd() tea.Cmd {
	result := m.result
	if result == nil {
		return nil
	}
	path := m.exportPath("json")
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(resultToJSON(result)), 0o644); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(result.Rows), path)}
	}
}

func (m Model) exportCSVCmd() tea.Cmd {
	result := m.result
	if result == nil {
		return nil
	}
	path := m.exportPath("csv")
	return func() tea.Msg {
		if err := writeCSV(path, result); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(result.Rows), path)}
	}
}

func writeCSV(path string, result *database.QueryResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write(result.Columns)
	for _, row := range result.Rows {
		_ = w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func resultToJSON(result *database.QueryResult) string {
	var b strings.Builder
	b.WriteString("[\n")
	for ri, row := range result.Rows {
		if ri > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(rowToJSON(result.Columns, row))
	}
	b.WriteString("\n]\n")
	return b.String()
}

// rowToJSON preserves column order unlike map marshaling. NULL cells become
// JSON null.
func rowToJSON(columns []string, row []string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col)
		b.Write(key)
		b.WriteString(": ")
		if i >= len(row) || row[i] == database.NullString {
			b.WriteString("null")
			continue
		}
		val, _ := json.Marshal(row[i])
		b.Write(val)
	}
	b.WriteString("}")
	return b.String()
}

func truncateStatus(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
