package theme

import "github.com/charmbracelet/lipgloss"

// Palette is a named set of terminal colours.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	BarBg     lipgloss.Color
	BarFg     lipgloss.Color
}

// Palettes selectable through preferences.theme.
var Palettes = map[string]Palette{
	"default": {
		Primary: "63", Secondary: "241", Success: "42", Error: "196",
		Border: "238", Muted: "245", Highlight: "229", BarBg: "236", BarFg: "252",
	},
	"light": {
		Primary: "25", Secondary: "244", Success: "28", Error: "160",
		Border: "250", Muted: "242", Highlight: "130", BarBg: "254", BarFg: "235",
	},
	"mono": {
		Primary: "255", Secondary: "246", Success: "255", Error: "255",
		Border: "240", Muted: "244", Highlight: "255", BarBg: "235", BarFg: "255",
	},
}

// Active colours.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorError     lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorHighlight lipgloss.Color
)

// Shared styles used across TUI components.
var (
	StyleBorder       lipgloss.Style
	StyleActiveBorder lipgloss.Style
	StyleTitle        lipgloss.Style
	StyleMuted        lipgloss.Style
	StyleError        lipgloss.Style
	StyleSuccess      lipgloss.Style
	StyleStatusBar    lipgloss.Style
)

func init() {
	Use("default")
}

// Use activates the named palette. Unknown names fall back to "default" and
// report false.
func Use(name string) bool {
	p, ok := Palettes[name]
	if !ok {
		p = Palettes["default"]
	}

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorSuccess = p.Success
	ColorError = p.Error
	ColorBorder = p.Border
	ColorMuted = p.Muted
	ColorHighlight = p.Highlight

	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleError = lipgloss.NewStyle().Foreground(ColorError)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	StyleStatusBar = lipgloss.NewStyle().
		Background(p.BarBg).
		Foreground(p.BarFg).
		Padding(0, 1)

	return ok
}
