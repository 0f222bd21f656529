package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the food delivery client.
//
// Fields:
//   - ServerURL: base URL of the remote API (paths under /api are appended).
//   - DBPath: SQLite file that keeps the credential token across restarts.
//   - RequestTimeout: upper bound for a single API call.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string        `env:"FD_SERVER_URL"`
	DBPath         string        `env:"FD_DB_PATH"`
	RequestTimeout time.Duration `env:"FD_REQUEST_TIMEOUT"`
	LogLevel       string        `env:"FD_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DBPath = "fooddelivery.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from the process command line and environment.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load applies defaults, then the optional config file, then environment
// variables, then flags from args. Later sources take precedence over
// earlier ones. Malformed input panics, as there is nothing sensible to
// run with.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
