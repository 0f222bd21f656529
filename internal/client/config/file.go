package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fooddelivery/internal/flagx"
	"github.com/dmitrijs2005/fooddelivery/internal/timex"
	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig is a DTO used exclusively for file decoding. Empty fields
// leave the corresponding Config value untouched.
type fileConfig struct {
	ServerURL      string         `json:"server_url" toml:"server_url"`
	DBPath         string         `json:"db_path" toml:"db_path"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout"`
	LogLevel       string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
// Read and decode errors panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
