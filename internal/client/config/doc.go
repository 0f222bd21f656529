// Package config loads runtime configuration for the food delivery client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .toml are decoded as TOML, everything else as JSON.
//  3. Environment variables FD_SERVER_URL, FD_DB_PATH, FD_REQUEST_TIMEOUT
//     and FD_LOG_LEVEL.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the API server
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # File schema
//
// Durations are strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "db_path": "fooddelivery.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
