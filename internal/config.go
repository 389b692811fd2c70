package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendMongo  = "mongo"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Store  StoreConfig       `yaml:"store"`
	Fonts  FontsConfig       `yaml:"fonts"`
	Render RenderConfig      `yaml:"render"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Render.Validate()
}

// LogLevel is a slog.Level that decodes from YAML level names
// ("debug", "info", "warn", "error", optionally with offsets like "warn+2").
type LogLevel slog.Level

// UnmarshalYAML implements yaml.Unmarshaler via slog's text format.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", s, err)
	}
	*l = LogLevel(lv)
	return nil
}

// Level implements slog.Leveler.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }

// String returns the slog level name.
func (l LogLevel) String() string { return slog.Level(l).String() }

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel   `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and configures the artifact store backend.
//
// Backend controls where artifacts are persisted:
//   - "sqlite" (default): local database file at SQLitePath.
//   - "mongo": MongoDB at MongoURI / MongoDatabase, matching the record
//     layout of the original deployment.
type StoreConfig struct {
	Backend           string `yaml:"backend"`
	SQLitePath        string `yaml:"sqlite_path"`
	MongoURI          string `yaml:"mongo_uri"`
	MongoDatabase     string `yaml:"mongo_database"`
	PutTimeoutSeconds int    `yaml:"put_timeout_seconds"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = StoreBackendSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(StoreBackendSQLite, StoreBackendMongo)),
		validation.Field(&c.PutTimeoutSeconds, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Backend == StoreBackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("store: backend is %q but sqlite_path is empty", StoreBackendSQLite)
	}
	if c.Backend == StoreBackendMongo && (c.MongoURI == "" || c.MongoDatabase == "") {
		return fmt.Errorf("store: backend is %q but mongo_uri or mongo_database is empty", StoreBackendMongo)
	}
	return nil
}

// FontsConfig holds the file paths of the four-variant document font family.
// All paths are optional; missing files fall back to the built-in core
// fonts with a startup warning.
type FontsConfig struct {
	Normal     string `yaml:"normal"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

// RenderConfig tunes the rendering pipeline.
type RenderConfig struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	StrictTotals   bool `yaml:"strict_totals"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel(slog.LevelInfo),
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Backend:           StoreBackendSQLite,
			SQLitePath:        "./fehu.db",
			MongoDatabase:     "fehu",
			PutTimeoutSeconds: 10,
		},
		Render: RenderConfig{
			TimeoutSeconds: 30,
		},
	}
}
