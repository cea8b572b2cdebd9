package app

import (
	"os"
	"strings"
	"time"

	"shopnav/server/logging"
)

// Config carries the process-level knobs. Zero values fall back to the
// defaults in Normalized.
type Config struct {
	Addr         string
	DatabasePath string
	ClientDir    string
	LayoutFile   string
	Logging      logging.Config
}

const (
	defaultAddr         = ":8080"
	defaultDatabasePath = "shopnav.db"
)

// ConfigFromEnv reads the environment the way the deployment scripts set it.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:         os.Getenv("SHOPNAV_ADDR"),
		DatabasePath: os.Getenv("SHOPNAV_DB"),
		ClientDir:    os.Getenv("SHOPNAV_CLIENT_DIR"),
		LayoutFile:   os.Getenv("SHOPNAV_LAYOUT"),
		Logging:      logging.DefaultConfig(),
	}
	if cfg.Addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		}
	}
	if sinks := os.Getenv("SHOPNAV_LOG_SINKS"); sinks != "" {
		cfg.Logging.EnabledSinks = splitList(sinks)
	}
	if file := os.Getenv("SHOPNAV_LOG_FILE"); file != "" {
		cfg.Logging.NDJSON.FilePath = file
		if !cfg.Logging.HasSink("ndjson") {
			cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, "ndjson")
		}
	}
	if os.Getenv("SHOPNAV_LOG_DEBUG") == "1" {
		cfg.Logging.MinimumSeverity = logging.SeverityDebug
	}
	return cfg
}

// Normalized fills unset fields with defaults.
func (c Config) Normalized() Config {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath
	}
	if len(c.Logging.EnabledSinks) == 0 {
		c.Logging.EnabledSinks = []string{"console"}
	}
	if c.Logging.BufferSize <= 0 {
		c.Logging.BufferSize = 512
	}
	if c.Logging.DropWarnInterval <= 0 {
		c.Logging.DropWarnInterval = 5 * time.Second
	}
	return c
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
