package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/metadata"
	"github.com/joacominatel/dbscope/internal/observer"
)

// HelpURL is reported by the Help action.
const HelpURL = "https://github.com/joacominatel/dbscope#readme"

// Session is one open connection together with its probed identity.
type Session struct {
	ID uuid.UUID

	svc       *Service
	conn      database.Conn
	inspector *metadata.Inspector
	logger    *slog.Logger

	caps        metadata.Capabilities
	hostKey     string
	displayName string
	connectCode string

	closed atomic.Bool
}

func newSession(ctx context.Context, svc *Service, conn database.Conn, connectCode string) *Session {
	id := uuid.New()
	logger := svc.logger.With(slog.String("session", id.String()))
	insp := metadata.NewInspector(conn, svc.dialects, logger)

	caps := insp.Capabilities(ctx)
	return &Session{
		ID:          id,
		svc:         svc,
		conn:        conn,
		inspector:   insp,
		logger:      logger,
		caps:        caps,
		hostKey:     metadata.HostKey(caps),
		displayName: metadata.DisplayName(caps),
		connectCode: connectCode,
	}
}

// Capabilities returns the capabilities probed when the session opened.
func (s *Session) Capabilities() metadata.Capabilities { return s.caps }

// HostKey returns the deduplication key of the connection.
func (s *Session) HostKey() string { return s.hostKey }

// DisplayName returns the user-facing label of the connection.
func (s *Session) DisplayName() string { return s.displayName }

// ConnectCode returns a command line that reopens the connection.
func (s *Session) ConnectCode() string { return s.connectCode }

// Conn returns the underlying connection.
func (s *Session) Conn() database.Conn { return s.conn }

// Closed reports whether Disconnect has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

// ListObjectTypes returns the object-type hierarchy, probed afresh.
func (s *Session) ListObjectTypes(ctx context.Context) (metadata.Children, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	h := s.inspector.ObjectTypes(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

// ListObjects lists the objects one level below filter.
func (s *Session) ListObjects(ctx context.Context, filter metadata.ObjectFilter) ([]metadata.Object, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	return s.inspector.Objects(ctx, filter)
}

// ListColumns lists the columns of the referenced table or view.
func (s *Session) ListColumns(ctx context.Context, ref metadata.ObjectRef) ([]metadata.Column, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	return s.inspector.Columns(ctx, ref)
}

// Preview returns at most rowLimit rows of the referenced object. Execution
// failures are reported as *ErrQuery carrying the generated SQL.
func (s *Session) Preview(ctx context.Context, rowLimit int, ref metadata.ObjectRef) (*database.QueryResult, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	res, err := s.inspector.Preview(ctx, rowLimit, ref)
	if err != nil {
		if errors.Is(err, metadata.ErrUsage) {
			return nil, err
		}
		sql, _ := s.inspector.PreviewQuery(rowLimit, ref)
		return nil, &ErrQuery{Query: sql, Cause: err}
	}
	return res, nil
}

// PreviewQuery returns the SQL Preview would run.
func (s *Session) PreviewQuery(rowLimit int, ref metadata.ObjectRef) (string, error) {
	return s.inspector.PreviewQuery(rowLimit, ref)
}

// SchemaChanged tells the observer that the schema of this connection
// changed. hint names what changed and may be empty.
func (s *Session) SchemaChanged(hint string) {
	if s.closed.Load() {
		return
	}
	s.svc.emitter.Updated(observer.UpdatedEvent{
		Type:    s.caps.ProductName,
		HostKey: s.hostKey,
		Hint:    hint,
	})
}

// Disconnect closes the connection and announces it. Later calls are no-ops.
func (s *Session) Disconnect() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.svc.forget(s.ID)

	err := s.conn.Close()
	if err != nil {
		s.logger.Warn("close failed", slog.Any("error", err))
	}
	s.svc.emitter.Closed(observer.ClosedEvent{Type: s.caps.ProductName, HostKey: s.hostKey})
	s.logger.Info("disconnected")
	return err
}

// Actions returns the commands offered to hosts for this connection.
func (s *Session) Actions() []observer.Action {
	return []observer.Action{
		{
			Name: "Refresh",
			Icon: "icons/refresh.png",
			Run: func(context.Context) error {
				s.SchemaChanged("")
				return nil
			},
		},
		{
			Name: "Help",
			Icon: "icons/help.png",
			Run: func(context.Context) error {
				s.logger.Info("help", slog.String("url", HelpURL))
				return nil
			},
		},
	}
}

// Callbacks binds the session operations for an observer.
func (s *Session) Callbacks() observer.Callbacks {
	return observer.Callbacks{
		Disconnect:      s.Disconnect,
		ListObjectTypes: s.ListObjectTypes,
		ListObjects:     s.ListObjects,
		ListColumns:     s.ListColumns,
		PreviewObject:   s.Preview,
		Actions:         s.Actions(),
		Connection:      s.conn,
	}
}

func (s *Session) usable(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return ctx.Err()
}
