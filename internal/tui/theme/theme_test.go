package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("default") })

	tests := []struct {
		name    string
		ok      bool
		primary string
	}{
		{"light", true, "25"},
		{"mono", true, "255"},
		{"default", true, "63"},
		{"neon", false, "63"},
		{"", false, "63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, Use(tt.name))
			assert.Equal(t, tt.primary, string(ColorPrimary))
			assert.Equal(t, ColorPrimary, StyleTitle.GetForeground())
		})
	}
}
