package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/dialect"
	"github.com/joacominatel/dbscope/internal/observer"
)

// Service coordinates application-level operations between a host (TUI or
// CLI) and the database layer. It opens sessions and reports their lifecycle
// to the registered observer.
type Service struct {
	dialects *dialect.Registry
	emitter  *observer.Emitter
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewService creates a new application service. A nil observer ignores
// lifecycle events; a nil logger discards output.
func NewService(obs observer.Observer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		dialects: dialect.Builtin(),
		emitter:  observer.NewEmitter(obs, logger),
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Connect opens a connection for the profile, identifies it and announces it
// to the observer.
func (s *Service) Connect(ctx context.Context, profile config.Connection) (*Session, error) {
	conn, err := database.Open(ctx, database.Config{
		Driver: profile.Driver,
		DSN:    profile.DSN(),
		Source: profile.Source,
	}, s.logger)
	if err != nil {
		return nil, &ErrConnection{Cause: err}
	}
	if err := ctx.Err(); err != nil {
		_ = conn.Close()
		return nil, &ErrConnection{Cause: err}
	}

	sess := newSession(ctx, s, conn, profile.ConnectCode())
	// table types read under a cancelled ctx come back empty
	if err := ctx.Err(); err != nil {
		_ = conn.Close()
		return nil, &ErrConnection{Cause: err}
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("connected",
		slog.String("session", sess.ID.String()),
		slog.String("product", sess.caps.ProductName),
		slog.String("host", sess.hostKey))

	s.emitter.Opened(observer.OpenedEvent{
		Type:        sess.caps.ProductName,
		DisplayName: sess.displayName,
		HostKey:     sess.hostKey,
		Icon:        sess.inspector.Dialect().Icon,
		ConnectCode: sess.connectCode,
		Callbacks:   sess.Callbacks(),
	})
	return sess, nil
}

// Sessions returns the open sessions.
func (s *Service) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// Close disconnects every open session and returns the first error.
func (s *Service) Close() error {
	var first error
	for _, sess := range s.Sessions() {
		if err := sess.Disconnect(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Service) forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
