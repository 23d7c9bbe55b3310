package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/dbscope/internal/app"
	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/tui/theme"
)

// Options configures the terminal explorer.
type Options struct {
	Config     *config.Config
	ConfigPath string
	// Profile, when set, is connected on start.
	Profile   *config.Connection
	ExportDir string
	// ConnectTimeout overrides preferences.connect_timeout when positive.
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// Run starts the explorer and blocks until the user quits or ctx is done.
// Open connections are closed on return.
func Run(ctx context.Context, opts Options) error {
	if opts.Config != nil {
		name := opts.Config.Preferences.Theme
		if !theme.Use(name) && name != "" && opts.Logger != nil {
			opts.Logger.Warn("unknown theme, using default", slog.String("theme", name))
		}
	}

	obs := &Observer{}
	svc := app.NewService(obs, opts.Logger)
	defer func() { _ = svc.Close() }()

	p := tea.NewProgram(NewModel(svc, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	obs.Attach(p.Send)

	_, err := p.Run()
	return err
}
