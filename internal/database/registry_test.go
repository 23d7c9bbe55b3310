package database

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	require.ErrorIs(t, err, ErrDriverRequired)
}

func TestOpen_UnknownDriver(t *testing.T) {
	Register("registry_test_known", func(context.Context, Config, *slog.Logger) (Conn, error) {
		return nil, nil
	})

	_, err := Open(context.Background(), Config{Driver: "fake_db"}, nil)
	require.Error(t, err)

	var unknown *UnknownDriverError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "fake_db", unknown.Driver)
	assert.Contains(t, unknown.Available, "registry_test_known")
	assert.Contains(t, err.Error(), "fake_db")
}

func TestOpen_PassesConfig(t *testing.T) {
	var got Config
	Register("registry_test_capture", func(_ context.Context, cfg Config, logger *slog.Logger) (Conn, error) {
		got = cfg
		assert.NotNil(t, logger)
		return nil, errors.New("boom")
	})

	_, err := Open(context.Background(), Config{Driver: "registry_test_capture", DSN: "x", Source: "DSN1"}, nil)
	require.EqualError(t, err, "boom")
	assert.Equal(t, "x", got.DSN)
	assert.Equal(t, "DSN1", got.Source)
}

func TestDrivers_Sorted(t *testing.T) {
	Register("registry_test_b", nil)
	Register("registry_test_a", nil)

	names := Drivers()
	ia, ib := -1, -1
	for i, n := range names {
		switch n {
		case "registry_test_a":
			ia = i
		case "registry_test_b":
			ib = i
		}
	}
	require.NotEqual(t, -1, ia)
	require.NotEqual(t, -1, ib)
	assert.Less(t, ia, ib)
}
