package config

import (
	"log/slog"
	"os"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds everything the server reads from flags and the environment.
type Config struct {
	Port        string
	DatabaseURL string
	DBDriver    string
	DataFile    string
	PublicDir   string
	LogLevel    string
	CORSOrigins []string
}

// Default returns the values used when neither a flag nor an env var is set.
func Default() Config {
	return Config{
		Port:        "8080",
		DBDriver:    DriverPostgres,
		DataFile:    "data/customers.json",
		PublicDir:   "public",
		LogLevel:    "info",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

// NewLogger builds the process logger and installs it as slog's default.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
