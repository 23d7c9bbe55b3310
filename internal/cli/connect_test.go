package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joacominatel/dbscope/internal/app"
	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// hangDriver never answers; it returns once ctx is done.
const hangDriver = "clitest-hang"

func init() {
	database.Register(hangDriver, func(ctx context.Context, _ database.Config, _ *slog.Logger) (database.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

func TestConnect_Timeout(t *testing.T) {
	o := &options{timeout: 20 * time.Millisecond}
	svc := app.NewService(nil, nil)

	start := time.Now()
	_, err := o.connect(context.Background(), svc, config.Connection{Driver: hangDriver})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var connErr *app.ErrConnection
	assert.ErrorAs(t, err, &connErr)
	assert.ErrorContains(t, err, "connect timed out after 20ms")
}

func TestLoad_Timeout(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preferences:\n  connect_timeout: 2s\n"), 0o600))

	tests := []struct {
		name string
		path string
		flag time.Duration
		want time.Duration
	}{
		{"default", filepath.Join(t.TempDir(), "absent.yaml"), 0, config.DefaultConnectTimeout},
		{"from config", path, 0, 2 * time.Second},
		{"flag wins", path, 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &options{configPath: tt.path, output: FormatTable, timeout: tt.flag}
			require.NoError(t, o.load(io.Discard))
			assert.Equal(t, tt.want, o.timeout)
		})
	}
}
