// Package cli provides the command-line interface for dbscope.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joacominatel/dbscope/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// options holds the global flags and the state derived from them.
type options struct {
	configPath string
	connName   string
	driver     string
	dsn        string
	logLevel   string
	output     string
	exportDir  string
	timeout    time.Duration

	cfg    *config.Config
	level  slog.Level
	logger *slog.Logger
}

// NewRootCmd creates and returns the root command. Without a subcommand it
// starts the terminal explorer.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dbscope",
		Short: "dbscope - browse the structure of any SQL database",
		Long: `dbscope discovers what a database connection offers (catalogs, schemas,
tables, views and their columns) and previews rows without writing SQL.

Run without a subcommand to open the terminal explorer.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return opts.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: ~/.dbscope/config.yaml)")
	flags.StringVarP(&opts.connName, "conn", "c", "", "saved connection to use")
	flags.StringVar(&opts.driver, "driver", "", "driver for --dsn (postgres|mysql|sqlite|duckdb; detected when empty)")
	flags.StringVar(&opts.dsn, "dsn", "", "connection string")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVarP(&opts.output, "output", "o", FormatTable, "output format (table|json)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "connect timeout (default: preferences.connect_timeout, 10s)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"postgres", "mysql", "sqlite", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("conn", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(cfg.Connections))
		for _, c := range cfg.Connections {
			names = append(names, c.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newUICommand(opts))
	rootCmd.AddCommand(newTypesCommand(opts))
	rootCmd.AddCommand(newObjectsCommand(opts))
	rootCmd.AddCommand(newColumnsCommand(opts))
	rootCmd.AddCommand(newPreviewCommand(opts))
	rootCmd.AddCommand(newIdentityCommand(opts))
	rootCmd.AddCommand(newConnectionsCommand(opts))

	return rootCmd
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (o *options) load(stderr io.Writer) error {
	if o.output != FormatTable && o.output != FormatJSON {
		return fmt.Errorf("unknown output format %q (want %s or %s)", o.output, FormatTable, FormatJSON)
	}
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	if o.timeout <= 0 {
		o.timeout = cfg.Preferences.Timeout()
	}

	level := o.logLevel
	if level == "" {
		level = cfg.Preferences.LogLevel
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	o.level = lvl
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
