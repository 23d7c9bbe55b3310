package statusbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView(t *testing.T) {
	m := New()
	m.SetWidth(160)
	assert.Contains(t, m.View(), "disconnected")
	assert.Contains(t, m.View(), "q: Quit")

	m.SetConnected("app - u@db1", "u_app_db1")
	view := m.View()
	assert.Contains(t, view, "app - u@db1")
	assert.Contains(t, view, "[u_app_db1]")

	m.SetMessage("Copied row as JSON")
	assert.Contains(t, m.View(), "Copied row as JSON")
	assert.NotContains(t, m.View(), "q: Quit")

	m.SetDisconnected()
	assert.Contains(t, m.View(), "disconnected")
}
