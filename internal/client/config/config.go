package config

import (
	"path/filepath"
	"time"
)

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds runtime settings for the fitclub CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST API; request paths are relative to it.
//   - DatabasePath: SQLite file holding client metadata and the session.
//   - SessionBackend: where the session is persisted, "sqlite" or "file".
//   - SessionFilePath: JSON file used by the "file" backend.
//   - RequestTimeout: upper bound for a single API call.
//   - RevalidateOnHydrate: confirm a restored session with the API at startup.
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: when set, gateway metrics are served on http://MetricsAddr/metrics.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	SessionBackend      string
	SessionFilePath     string
	RequestTimeout      time.Duration
	RevalidateOnHydrate bool
	LogLevel            string
	MetricsAddr         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.DatabasePath = "fitclub.sqlite"
	c.SessionBackend = BackendSQLite
	c.SessionFilePath = filepath.Join(".", "session.json")
	c.RequestTimeout = 10 * time.Second
	c.RevalidateOnHydrate = true
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.validate()
	return cfg
}

func (c *Config) validate() {
	if c.SessionBackend != BackendSQLite && c.SessionBackend != BackendFile {
		panic("unknown session backend " + c.SessionBackend)
	}
	if c.RequestTimeout <= 0 {
		panic("request timeout must be positive")
	}
}
