package observer

import (
	"context"
	"log/slog"
)

// Logging reports every event to a logger. The zero Level logs at info.
type Logging struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (l Logging) ConnectionOpened(e OpenedEvent) {
	l.Logger.Log(context.Background(), l.Level, "connection opened",
		slog.String("type", e.Type),
		slog.String("name", e.DisplayName),
		slog.String("host", e.HostKey),
		slog.String("code", e.ConnectCode))
}

func (l Logging) ConnectionUpdated(e UpdatedEvent) {
	l.Logger.Log(context.Background(), l.Level, "connection updated",
		slog.String("type", e.Type),
		slog.String("host", e.HostKey),
		slog.String("hint", e.Hint))
}

func (l Logging) ConnectionClosed(e ClosedEvent) {
	l.Logger.Log(context.Background(), l.Level, "connection closed",
		slog.String("type", e.Type),
		slog.String("host", e.HostKey))
}
