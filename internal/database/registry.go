package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Config describes how to open a connection.
type Config struct {
	// Driver is the registered driver name ("postgres", "mysql", "sqlite", "duckdb").
	Driver string
	// DSN is the driver-specific connection string.
	DSN string
	// Source is the configured source name, reported back through Info.Source.
	Source string
}

// Opener opens a connection for a registered driver.
type Opener func(ctx context.Context, cfg Config, logger *slog.Logger) (Conn, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Opener)
)

// ErrDriverRequired is returned when Open is called without a driver name.
var ErrDriverRequired = errors.New("driver not specified")

// Register adds a driver opener to the registry.
// Called by driver implementations in their init() functions.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = open
}

// Open opens a connection with the driver named in cfg.
// A nil logger is replaced by a discard logger.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Conn, error) {
	if cfg.Driver == "" {
		return nil, ErrDriverRequired
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registryMu.RLock()
	open, ok := registry[cfg.Driver]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDriverError{Driver: cfg.Driver, Available: Drivers()}
	}
	return open(ctx, cfg, logger.With(slog.String("driver", cfg.Driver)))
}

// Drivers returns all registered driver names (sorted).
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when an unregistered driver is requested.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q (available: %v)", e.Driver, e.Available)
}
