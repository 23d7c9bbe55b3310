package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	// DefaultPreviewRowLimit is used when preferences leave the limit unset.
	DefaultPreviewRowLimit = 1000
	// DefaultConnectTimeout bounds opening a connection when preferences
	// leave the timeout unset.
	DefaultConnectTimeout = 10 * time.Second
)

// Config represents the application configuration.
type Config struct {
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
}

// Connection represents a saved database connection profile.
// Network drivers use Host/Port/Database; file drivers use Path.
type Connection struct {
	Name     string            `mapstructure:"name" yaml:"name"`
	Driver   string            `mapstructure:"driver" yaml:"driver"`
	Host     string            `mapstructure:"host" yaml:"host,omitempty"`
	Port     int               `mapstructure:"port" yaml:"port,omitempty"`
	Database string            `mapstructure:"database" yaml:"database,omitempty"`
	Username string            `mapstructure:"username" yaml:"username,omitempty"`
	Password string            `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string            `mapstructure:"sslmode" yaml:"sslmode,omitempty"`
	Path     string            `mapstructure:"path" yaml:"path,omitempty"`
	Source   string            `mapstructure:"source" yaml:"source,omitempty"`
	Options  map[string]string `mapstructure:"options" yaml:"options,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	Theme             string `mapstructure:"theme" yaml:"theme"`
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
	PreviewRowLimit   int    `mapstructure:"preview_row_limit" yaml:"preview_row_limit"`
	LogLevel          string `mapstructure:"log_level" yaml:"log_level"`
	// ConnectTimeout bounds opening a connection and reading its capabilities.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// RowLimit returns the preview row limit, falling back to the default.
func (p Preferences) RowLimit() int {
	if p.PreviewRowLimit <= 0 {
		return DefaultPreviewRowLimit
	}
	return p.PreviewRowLimit
}

// Timeout returns the connect timeout, falling back to the default.
func (p Preferences) Timeout() time.Duration {
	if p.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return p.ConnectTimeout
}

// DSN builds the driver-specific connection string for the profile.
func (c Connection) DSN() string {
	switch c.Driver {
	case "mysql":
		return c.mysqlDSN()
	case "sqlite", "duckdb":
		return withQuery(c.Path, c.Options)
	default:
		return c.postgresDSN()
	}
}

func (c Connection) postgresDSN() string {
	dsn := "postgresql://"
	if c.Username != "" {
		dsn += c.Username
		if c.Password != "" {
			dsn += ":" + c.Password
		}
		dsn += "@"
	}
	dsn += c.Host
	if c.Port > 0 {
		dsn += ":" + strconv.Itoa(c.Port)
	}
	dsn += "/" + c.Database

	opts := make(map[string]string, len(c.Options)+1)
	for k, v := range c.Options {
		opts[k] = v
	}
	if c.SSLMode != "" {
		opts["sslmode"] = c.SSLMode
	}
	return withQuery(dsn, opts)
}

func (c Connection) mysqlDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	if c.Port > 0 {
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	cfg.DBName = c.Database
	if len(c.Options) > 0 {
		cfg.Params = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	if c.isFile() {
		path := c.Path
		if path == "" {
			path = ":memory:"
		}
		return c.Driver + ":" + path
	}
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ConnectCode returns a command line that reopens the connection.
// The password is never included.
func (c Connection) ConnectCode() string {
	redacted := c
	if redacted.Password != "" {
		redacted.Password = "xxxxx"
	}
	code := fmt.Sprintf("dbscope --driver %s --dsn '%s'", c.Driver, redacted.DSN())
	if c.Name != "" {
		code = fmt.Sprintf("dbscope --conn '%s'", c.Name)
	}
	return code
}

func (c Connection) isFile() bool {
	return c.Driver == "sqlite" || c.Driver == "duckdb"
}

// DetectDriver guesses the driver for a connection string. It returns ""
// when nothing matches.
func DetectDriver(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql"
	}
	path, _, _ := strings.Cut(lower, "?")
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".duckdb", ".ddb":
		return "duckdb"
	}
	if strings.HasPrefix(lower, "file:") {
		return "sqlite"
	}
	return ""
}

// ParseDSN parses a connection string for driver into a Connection. An
// empty driver is detected from the string.
func ParseDSN(driver, dsn string) (Connection, error) {
	if driver == "" {
		driver = DetectDriver(dsn)
	}
	switch driver {
	case "postgres":
		return parsePostgres(dsn)
	case "mysql":
		return parseMySQL(dsn)
	case "sqlite", "duckdb":
		return parseFile(driver, dsn)
	case "":
		return Connection{}, fmt.Errorf("cannot detect driver for DSN %q", dsn)
	default:
		return Connection{}, fmt.Errorf("unsupported driver %q", driver)
	}
}

func parsePostgres(dsn string) (Connection, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}

	conn := Connection{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
	}

	q := u.Query()
	conn.SSLMode = q.Get("sslmode")
	q.Del("sslmode")
	conn.Options = flatten(q)

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, _ = strconv.Atoi(portStr)
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}

	conn.Name = fmt.Sprintf("postgres-%s-%d-%s", conn.Host, conn.Port, conn.Database)
	return conn, nil
}

func parseMySQL(dsn string) (Connection, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}

	conn := Connection{
		Driver:   "mysql",
		Host:     cfg.Addr,
		Database: cfg.DBName,
		Username: cfg.User,
		Password: cfg.Passwd,
	}
	if host, port, err := net.SplitHostPort(cfg.Addr); err == nil {
		conn.Host = host
		conn.Port, _ = strconv.Atoi(port)
	}
	if conn.Port == 0 {
		conn.Port = 3306
	}
	if len(cfg.Params) > 0 {
		conn.Options = cfg.Params
	}

	conn.Name = fmt.Sprintf("mysql-%s-%d-%s", conn.Host, conn.Port, conn.Database)
	return conn, nil
}

func parseFile(driver, dsn string) (Connection, error) {
	path, rawQuery, _ := strings.Cut(dsn, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN options: %w", err)
	}

	conn := Connection{
		Driver:  driver,
		Path:    path,
		Options: flatten(q),
	}
	name := strings.TrimSuffix(filepath.Base(strings.TrimPrefix(path, "file:")), filepath.Ext(path))
	if path == "" {
		name = "memory"
	}
	conn.Name = driver + "-" + name
	return conn, nil
}

// HasConnection checks if a connection with the given name already exists.
func (cfg *Config) HasConnection(name string) bool {
	_, ok := cfg.FindConnection(name)
	return ok
}

// FindConnection returns the connection with the given name.
func (cfg *Config) FindConnection(name string) (*Connection, bool) {
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == name {
			return &cfg.Connections[i], true
		}
	}
	return nil, false
}

// AddConnection appends a connection if it doesn't already exist.
func (cfg *Config) AddConnection(conn Connection) {
	if !cfg.HasConnection(conn.Name) {
		cfg.Connections = append(cfg.Connections, conn)
	}
}

func flatten(q url.Values) map[string]string {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}

// withQuery appends opts as a sorted query string.
func withQuery(base string, opts map[string]string) string {
	if len(opts) == 0 {
		return base
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(opts[k]))
	}
	return base + "?" + strings.Join(parts, "&")
}
