// Package config loads runtime configuration for the fitclub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and FITCLUB_* environment
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   path to the client database
//	-t int      request timeout (seconds)
//	-m string   metrics listen address (e.g. 127.0.0.1:9091)
//
// Environment
//
//	FITCLUB_API_URL, FITCLUB_DB_PATH, FITCLUB_SESSION_BACKEND,
//	FITCLUB_SESSION_FILE, FITCLUB_REQUEST_TIMEOUT (e.g. "5s"),
//	FITCLUB_REVALIDATE (bool), FITCLUB_LOG_LEVEL, FITCLUB_METRICS_ADDR
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:5000/api",
//	  "database_path": "fitclub.sqlite",
//	  "session_backend": "sqlite",
//	  "session_file_path": "session.json",
//	  "request_timeout": "10s",
//	  "revalidate_on_hydrate": true,
//	  "log_level": "info",
//	  "metrics_addr": "127.0.0.1:9091"
//	}
//
// Malformed values in any source cause LoadConfig to panic.
package config
