package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	configDir  = ".dbscope"
	configFile = "config"
	configType = "yaml"

	envPrefix = "DBSCOPE"

	// KeyringService is the OS keyring service under which passwords are stored.
	KeyringService = "dbscope"
)

// LoadEnv loads variables from the given dotenv files into the process
// environment. Missing files are skipped; existing variables win.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from path, or from ~/.dbscope/config.yaml when
// path is empty. A missing file yields the defaults. DBSCOPE_* variables
// override file values, and passwords missing from the file are looked up in
// the OS keyring.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		v.SetConfigName(configFile)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	for i := range cfg.Connections {
		c := &cfg.Connections[i]
		if c.Password != "" || c.Name == "" {
			continue
		}
		// keyring unavailable or entry missing: leave the password empty
		if pw, err := keyring.Get(KeyringService, c.Name); err == nil {
			c.Password = pw
		}
	}

	return cfg, nil
}

// Save writes the configuration to path, or to ~/.dbscope/config.yaml when
// path is empty. Passwords are moved to the OS keyring and never written to
// the file.
func Save(cfg *Config, path string) error {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return fmt.Errorf("config dir: %w", err)
		}
		path = filepath.Join(dir, configFile+"."+configType)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	conns := make([]Connection, len(cfg.Connections))
	for i, c := range cfg.Connections {
		if c.Password != "" {
			if err := keyring.Set(KeyringService, c.Name, c.Password); err != nil {
				return fmt.Errorf("store password for %q: %w", c.Name, err)
			}
			c.Password = ""
		}
		conns[i] = c
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.Set("connections", conns)
	v.Set("preferences", cfg.Preferences)
	return v.WriteConfigAs(path)
}

// DefaultConnection returns the default connection from config, or the first one.
func DefaultConnection(cfg *Config) *Connection {
	if len(cfg.Connections) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultConnection != "" {
		if c, ok := cfg.FindConnection(cfg.Preferences.DefaultConnection); ok {
			return c
		}
	}

	return &cfg.Connections[0]
}

// Dir returns the directory holding the config file and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("preferences.theme", "default")
	v.SetDefault("preferences.default_connection", "")
	v.SetDefault("preferences.preview_row_limit", DefaultPreviewRowLimit)
	v.SetDefault("preferences.log_level", "info")
	v.SetDefault("preferences.connect_timeout", DefaultConnectTimeout)
	return v
}
