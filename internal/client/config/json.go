package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fitclub/internal/flagx"
	"github.com/dmitrijs2005/fitclub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "10s" or as integer nanoseconds. Absent fields leave the
// current value untouched.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	DatabasePath        string         `json:"database_path"`
	SessionBackend      string         `json:"session_backend"`
	SessionFilePath     string         `json:"session_file_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	RevalidateOnHydrate *bool          `json:"revalidate_on_hydrate"`
	LogLevel            string         `json:"log_level"`
	MetricsAddr         string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SessionBackend != "" {
		cfg.SessionBackend = jc.SessionBackend
	}
	if jc.SessionFilePath != "" {
		cfg.SessionFilePath = jc.SessionFilePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RevalidateOnHydrate != nil {
		cfg.RevalidateOnHydrate = *jc.RevalidateOnHydrate
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
}
