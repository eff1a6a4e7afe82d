// Package config handles configuration for the development API server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the fitclub development API.
//
// Fields:
//   - ListenAddr: bind address of the HTTP server.
//   - BasePath: prefix all routes are mounted under (e.g. "/api").
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of an issued token.
//   - LoginRatePerSecond / LoginBurst: per-client token bucket for login and register.
//   - SeedDemoData: create a demo account with sample bookings at startup.
type Config struct {
	ListenAddr                  string
	BasePath                    string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	LoginRatePerSecond          float64
	LoginBurst                  int
	SeedDemoData                bool
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.BasePath = "/api"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.LoginRatePerSecond = 1
	c.LoginBurst = 5
	c.SeedDemoData = true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
