package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL     = "FITCLUB_API_URL"
	EnvDatabasePath   = "FITCLUB_DB_PATH"
	EnvSessionBackend = "FITCLUB_SESSION_BACKEND"
	EnvSessionFile    = "FITCLUB_SESSION_FILE"
	EnvRequestTimeout = "FITCLUB_REQUEST_TIMEOUT"
	EnvRevalidate     = "FITCLUB_REVALIDATE"
	EnvLogLevel       = "FITCLUB_LOG_LEVEL"
	EnvMetricsAddr    = "FITCLUB_METRICS_ADDR"
)

// dotenvFiles are loaded before the environment is read. Variables already
// set in the process environment win over the file.
var dotenvFiles = []string{".env"}

// parseEnv overlays Config with FITCLUB_* environment variables. A missing
// .env file is not an error. Panics on malformed values.
func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDatabasePath); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvSessionBackend); ok {
		cfg.SessionBackend = v
	}
	if v, ok := os.LookupEnv(EnvSessionFile); ok {
		cfg.SessionFilePath = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(EnvRevalidate); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.RevalidateOnHydrate = b
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
}
