package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joacominatel/dbscope/internal/app"
	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/observer"

	// Register the database drivers.
	_ "github.com/joacominatel/dbscope/internal/database/postgres"
	_ "github.com/joacominatel/dbscope/internal/database/sqldb"
)

// errNoConnection is returned when neither --dsn, --conn nor a saved default
// names a connection.
var errNoConnection = errors.New("no connection: pass --dsn, --conn or save a connection first")

// profile resolves the connection to open: --dsn, then --conn, then the
// configured default.
func (o *options) profile() (config.Connection, error) {
	if o.dsn != "" {
		conn, err := config.ParseDSN(o.driver, o.dsn)
		if err != nil {
			return config.Connection{}, &app.ErrConfig{Cause: err}
		}
		conn.Name = ""
		return conn, nil
	}
	if o.connName != "" {
		c, ok := o.cfg.FindConnection(o.connName)
		if !ok {
			return config.Connection{}, &app.ErrConfig{Cause: fmt.Errorf("no saved connection named %q", o.connName)}
		}
		return *c, nil
	}
	if c := config.DefaultConnection(o.cfg); c != nil {
		return *c, nil
	}
	return config.Connection{}, errNoConnection
}

// connect opens profile, bounding the connect and the capability read by
// the configured timeout.
func (o *options) connect(ctx context.Context, svc *app.Service, profile config.Connection) (*app.Session, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	sess, err := svc.Connect(ctx, profile)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("connect timed out after %s: %w", o.timeout, err)
	}
	return sess, err
}

// withSession opens the selected connection, runs fn and disconnects.
// Lifecycle events are logged at debug level.
func (o *options) withSession(ctx context.Context, fn func(*app.Session) error) error {
	profile, err := o.profile()
	if err != nil {
		return err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	svc := app.NewService(observer.Logging{Logger: logger, Level: slog.LevelDebug}, logger)

	sess, err := o.connect(ctx, svc, profile)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	return fn(sess)
}
