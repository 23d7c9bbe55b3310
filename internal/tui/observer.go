package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/dbscope/internal/observer"
)

type (
	openedMsg  struct{ ev observer.OpenedEvent }
	updatedMsg struct{ ev observer.UpdatedEvent }
	closedMsg  struct{ ev observer.ClosedEvent }
)

// Observer forwards connection lifecycle events into a running program.
// Events raised before Attach are dropped.
type Observer struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// Attach sets the function events are delivered through, usually
// (*tea.Program).Send.
func (o *Observer) Attach(send func(tea.Msg)) {
	o.mu.Lock()
	o.send = send
	o.mu.Unlock()
}

func (o *Observer) dispatch(msg tea.Msg) {
	o.mu.RLock()
	send := o.send
	o.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// ConnectionOpened implements observer.Observer.
func (o *Observer) ConnectionOpened(e observer.OpenedEvent) { o.dispatch(openedMsg{e}) }

// ConnectionUpdated implements observer.Observer.
func (o *Observer) ConnectionUpdated(e observer.UpdatedEvent) { o.dispatch(updatedMsg{e}) }

// ConnectionClosed implements observer.Observer.
func (o *Observer) ConnectionClosed(e observer.ClosedEvent) { o.dispatch(closedMsg{e}) }
