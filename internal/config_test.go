package internal

import (
	"log/slog"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	pkgconfig "github.com/starford/fehu/pkg/config"
)

func TestStoreConfig_EmptyBackendDefaultsSQLite(t *testing.T) {
	cfg := StoreConfig{Backend: "", SQLitePath: "./test.db"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to sqlite: %v", err)
	}
	if cfg.Backend != StoreBackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Backend, StoreBackendSQLite)
	}
}

func TestStoreConfig_SQLiteRequiresPath(t *testing.T) {
	cfg := StoreConfig{Backend: StoreBackendSQLite, SQLitePath: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("sqlite backend without path should fail")
	}
	if !strings.Contains(err.Error(), "sqlite_path") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreConfig_MongoRequiresURIAndDatabase(t *testing.T) {
	cfg := StoreConfig{Backend: StoreBackendMongo, MongoURI: "mongodb://localhost:27017"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("mongo backend without database should fail")
	}

	cfg = StoreConfig{Backend: StoreBackendMongo, MongoURI: "mongodb://localhost:27017", MongoDatabase: "fehu"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete mongo config should pass: %v", err)
	}
}

func TestStoreConfig_InvalidBackend(t *testing.T) {
	cfg := StoreConfig{Backend: "postgres", SQLitePath: "./test.db"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("address = %q, want :9090", got)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail validation")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above 65535 should fail validation")
	}
}

func TestRenderConfig_NegativeTimeout(t *testing.T) {
	cfg := RenderConfig{TimeoutSeconds: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative timeout should fail validation")
	}
}

func TestFullConfig_StoreValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Backend = StoreBackendMongo
	cfg.Store.MongoURI = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch store error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLogLevelDecodesFromYAML(t *testing.T) {
	data := "app:\n  log_level: warn\n  http:\n    port: 9090\n"
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal([]byte(data), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.App.LogLevel.Level() != slog.LevelWarn {
		t.Errorf("log level = %v, want warn", cfg.App.LogLevel.Level())
	}
}

func TestLogLevelRejectsUnknownName(t *testing.T) {
	data := "app:\n  log_level: verbose\n"
	cfg := NewDefaultConfig()
	err := yaml.Unmarshal([]byte(data), cfg)
	if err == nil {
		t.Fatal("unknown level name should fail to decode")
	}
	if !strings.Contains(err.Error(), "verbose") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfigFileLoads(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MONGO_URI", "")
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load("../config/config.yaml", cfg); err != nil {
		t.Fatalf("shipped config should load: %v", err)
	}
	if cfg.App.LogLevel.Level() != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.App.LogLevel.Level())
	}
	if cfg.Store.Backend != StoreBackendSQLite {
		t.Errorf("backend = %q, want sqlite default", cfg.Store.Backend)
	}
}
