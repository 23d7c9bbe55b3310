package observer

import (
	"fmt"
	"log/slog"
)

// Emitter delivers events to the registered observer. Delivery never fails
// the caller: a panicking observer is logged and ignored.
type Emitter struct {
	obs    Observer
	logger *slog.Logger
}

// NewEmitter creates an emitter for obs. A nil observer makes every
// notification a no-op; a nil logger discards output.
func NewEmitter(obs Observer, logger *slog.Logger) *Emitter {
	if obs == nil {
		obs = Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{obs: obs, logger: logger}
}

// Opened notifies the observer that a connection opened.
func (e *Emitter) Opened(ev OpenedEvent) {
	e.deliver("opened", ev.HostKey, func() { e.obs.ConnectionOpened(ev) })
}

// Updated notifies the observer that a connection's schema changed.
func (e *Emitter) Updated(ev UpdatedEvent) {
	e.deliver("updated", ev.HostKey, func() { e.obs.ConnectionUpdated(ev) })
}

// Closed notifies the observer that a connection closed.
func (e *Emitter) Closed(ev ClosedEvent) {
	e.deliver("closed", ev.HostKey, func() { e.obs.ConnectionClosed(ev) })
}

func (e *Emitter) deliver(event, host string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("observer panicked",
				slog.String("event", event),
				slog.String("host", host),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	e.logger.Debug("connection event", slog.String("event", event), slog.String("host", host))
	fn()
}
