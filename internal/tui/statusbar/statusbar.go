package statusbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/dbscope/internal/tui/theme"
)

// Hints shown when no message is pending.
const Hints = "s: Preview │ r: Refresh │ d: Rows │ x: Disconnect │ Tab: Switch pane │ ?: Help │ q: Quit"

// Model is the status bar component.
type Model struct {
	width       int
	connected   bool
	displayName string
	hostKey     string
	activePane  string
	message     string
}

// New creates a new status bar model.
func New() Model {
	return Model{
		activePane: "explorer",
	}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected shows an open connection by its display name and host key.
func (m *Model) SetConnected(displayName, hostKey string) {
	m.connected = true
	m.displayName = displayName
	m.hostKey = hostKey
}

// SetDisconnected clears the connection indicator.
func (m *Model) SetDisconnected() {
	m.connected = false
	m.displayName = ""
	m.hostKey = ""
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (status bar has no interactive behavior).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var connIndicator string
	if m.connected {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorSuccess).
			Render("●") + " " + m.displayName
		if m.hostKey != "" {
			connIndicator += " " + theme.StyleMuted.Render("["+m.hostKey+"]")
		}
	} else {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render("●") + " disconnected"
	}

	right := Hints
	if m.message != "" {
		right = m.message
	}

	padding := m.width - lipgloss.Width(connIndicator) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}

	return style.Render(connIndicator + strings.Repeat(" ", padding) + right)
}
