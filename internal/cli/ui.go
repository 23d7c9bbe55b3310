package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/tui"
	"github.com/spf13/cobra"
)

const logFile = "dbscope.log"

func newUICommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal explorer (the default command)",
		Example: `  dbscope
  dbscope ui --dsn ./shop.db
  dbscope ui --conn prod --export-dir ~/exports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", "", "directory for CSV/JSON exports (default: working directory)")
	return cmd
}

// runUI starts the terminal explorer. Logs go to ~/.dbscope/dbscope.log
// since stderr belongs to the screen.
func runUI(cmd *cobra.Command, opts *options) error {
	var profile *config.Connection
	if opts.dsn != "" || opts.connName != "" {
		p, err := opts.profile()
		if err != nil {
			return err
		}
		profile = &p
	}

	f, err := openLog()
	if err != nil {
		return err
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: opts.level}))
	logger.Info("starting", slog.String("version", Version))

	return tui.Run(cmd.Context(), tui.Options{
		Config:     opts.cfg,
		ConfigPath: opts.configPath,
		Profile:    profile,
		ExportDir:  opts.exportDir,
		// resolved from --timeout or preferences by load
		ConnectTimeout: opts.timeout,
		Logger:         logger,
	})
}

func openLog() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
