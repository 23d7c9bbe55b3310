package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/database/databasetest"
	"github.com/stretchr/testify/assert"
)

func TestHostKey(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want string
	}{
		{"all parts", Capabilities{Username: "u", DatabaseName: "db", ServerName: "srv"}, "u_db_srv"},
		{"server equals database", Capabilities{Username: "u", DatabaseName: "db", ServerName: "db"}, "u_db"},
		{"no user", Capabilities{DatabaseName: "db", ServerName: "srv"}, "db_srv"},
		{"only server", Capabilities{ServerName: "srv"}, "srv"},
		{"nothing", Capabilities{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostKey(tt.caps))
			assert.Equal(t, HostKey(tt.caps), HostKey(tt.caps))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want string
	}{
		{"source wins", Capabilities{SourceName: "DSN1", Username: "u", DatabaseName: "db", ServerName: "srv"}, "DSN1"},
		{"database with server label", Capabilities{Username: "u", DatabaseName: "db", ServerName: "srv"}, "db - u@srv"},
		{"no user", Capabilities{DatabaseName: "db", ServerName: "srv"}, "db - srv"},
		{"label equals database", Capabilities{DatabaseName: "main", ServerName: "main"}, "main"},
		{"database only", Capabilities{DatabaseName: "db"}, "db"},
		{"no database", Capabilities{Username: "u", ServerName: "srv"}, "u@srv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.caps))
			assert.Equal(t, DisplayName(tt.caps), DisplayName(tt.caps))
		})
	}
}

func TestProbe(t *testing.T) {
	conn := &databasetest.Conn{
		Attrs: database.Info{
			ProductName:    "MySQL",
			Username:       "app",
			Database:       "shop",
			Server:         "db1",
			SupportsSchema: true,
		},
		Types: []string{"TABLE", "VIEW"},
	}

	got := newInspector(t, conn).Capabilities(context.Background())
	assert.Equal(t, Capabilities{
		TableTypes:     []string{"TABLE", "VIEW"},
		SupportsSchema: true,
		ProductName:    "MySQL",
		Username:       "app",
		DatabaseName:   "shop",
		ServerName:     "db1",
	}, got)
}

func TestProbe_TableTypeFailure(t *testing.T) {
	conn := &databasetest.Conn{TableTypesErr: errors.New("unsupported")}

	h := newInspector(t, conn).ObjectTypes(context.Background())
	assert.Equal(t, Children{"table": {Contains: Data{}}}, h)
}
