// Package observer notifies an external tooling host about connection
// lifecycle events.
//
// A host registers one Observer with an Emitter. When a connection opens the
// host receives callbacks bound to that connection, which it may invoke at any
// later point (including from inside another callback) until the connection
// closes.
package observer

import (
	"context"

	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/metadata"
)

// Observer receives connection lifecycle events. Implementations must not
// block for long: events are delivered synchronously.
type Observer interface {
	ConnectionOpened(OpenedEvent)
	ConnectionUpdated(UpdatedEvent)
	ConnectionClosed(ClosedEvent)
}

// OpenedEvent announces a new connection.
type OpenedEvent struct {
	// Type is the backend product name.
	Type        string
	DisplayName string
	HostKey     string
	Icon        string
	// ConnectCode reproduces the connection (secrets redacted).
	ConnectCode string
	Callbacks   Callbacks
}

// UpdatedEvent announces a schema change on a connection.
type UpdatedEvent struct {
	Type    string
	HostKey string
	Hint    string
}

// ClosedEvent announces that a connection was closed.
type ClosedEvent struct {
	Type    string
	HostKey string
}

// Action is a host-visible command offered for a connection.
type Action struct {
	Name string
	Icon string
	Run  func(ctx context.Context) error
}

// Callbacks re-enter the metadata layer for one connection.
type Callbacks struct {
	Disconnect      func() error
	ListObjectTypes func(ctx context.Context) (metadata.Children, error)
	ListObjects     func(ctx context.Context, filter metadata.ObjectFilter) ([]metadata.Object, error)
	ListColumns     func(ctx context.Context, ref metadata.ObjectRef) ([]metadata.Column, error)
	PreviewObject   func(ctx context.Context, rowLimit int, ref metadata.ObjectRef) (*database.QueryResult, error)
	Actions         []Action
	Connection      database.Conn
}

// Nop ignores every event.
type Nop struct{}

func (Nop) ConnectionOpened(OpenedEvent)   {}
func (Nop) ConnectionUpdated(UpdatedEvent) {}
func (Nop) ConnectionClosed(ClosedEvent)   {}

// Funcs adapts plain functions to an Observer. Nil fields are skipped.
type Funcs struct {
	Opened  func(OpenedEvent)
	Updated func(UpdatedEvent)
	Closed  func(ClosedEvent)
}

func (f Funcs) ConnectionOpened(e OpenedEvent) {
	if f.Opened != nil {
		f.Opened(e)
	}
}

func (f Funcs) ConnectionUpdated(e UpdatedEvent) {
	if f.Updated != nil {
		f.Updated(e)
	}
}

func (f Funcs) ConnectionClosed(e ClosedEvent) {
	if f.Closed != nil {
		f.Closed(e)
	}
}
