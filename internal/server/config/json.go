package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fitclub/internal/flagx"
	"github.com/dmitrijs2005/fitclub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for the token lifetime, which allows parsing both
// string values such as "15m" and integer nanoseconds.
type JsonConfig struct {
	ListenAddr                  string         `json:"listen_addr"`
	BasePath                    *string        `json:"base_path"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LoginRatePerSecond          float64        `json:"login_rate_per_second"`
	LoginBurst                  int            `json:"login_burst"`
	SeedDemoData                *bool          `json:"seed_demo_data"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into cfg. Without the flag nothing is loaded. Fields absent
// from the file keep their current values. Panics if the file cannot be read
// or contains invalid JSON.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		cfg.ListenAddr = c.ListenAddr
	}
	if c.BasePath != nil {
		cfg.BasePath = *c.BasePath
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.LoginRatePerSecond != 0 {
		cfg.LoginRatePerSecond = c.LoginRatePerSecond
	}
	if c.LoginBurst != 0 {
		cfg.LoginBurst = c.LoginBurst
	}
	if c.SeedDemoData != nil {
		cfg.SeedDemoData = *c.SeedDemoData
	}
}
