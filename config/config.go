package config

import (
	"os"
	"strconv"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort            string
	LogLevel              string
	LogFormat             string
	ConfigFile            string
	SimulatedLatencyMS    string
	LookupTimeoutMS       string
	HistoryLimit          string
	SessionIdleTTLMinutes string
	MaxSessions           string
	ExportDir             string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:            getEnv("SERVER_PORT", ""),
		LogLevel:              getEnv("LOG_LEVEL", ""),
		LogFormat:             getEnv("LOG_FORMAT", ""),
		ConfigFile:            getEnv("CONFIG_FILE", ""),
		SimulatedLatencyMS:    getEnv("SIMULATED_LATENCY_MS", ""),
		LookupTimeoutMS:       getEnv("LOOKUP_TIMEOUT_MS", ""),
		HistoryLimit:          getEnv("HISTORY_LIMIT", ""),
		SessionIdleTTLMinutes: getEnv("SESSION_IDLE_TTL_MINUTES", ""),
		MaxSessions:           getEnv("MAX_SESSIONS", ""),
		ExportDir:             getEnv("EXPORT_DIR", ""),
	}
}

// Unified builds the application configuration: defaults, then the optional
// YAML or JSON file, then environment overrides.
func (c *Config) Unified() (*shared.UnifiedConfiguration, error) {
	unified := shared.NewDefaultUnifiedConfiguration()

	if c.ConfigFile != "" {
		if err := unified.LoadFile(c.ConfigFile); err != nil {
			return nil, err
		}
	}

	if c.ServerPort != "" {
		unified.Service.Port = c.ServerPort
	}
	if c.LogLevel != "" {
		unified.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		unified.Logging.Format = c.LogFormat
	}
	if c.ExportDir != "" {
		unified.Export.Directory = c.ExportDir
	}
	if ms, ok := parseInt("SIMULATED_LATENCY_MS", c.SimulatedLatencyMS); ok && ms >= 0 {
		unified.Lookup.SimulatedLatency = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := parseInt("LOOKUP_TIMEOUT_MS", c.LookupTimeoutMS); ok {
		unified.Lookup.Timeout = time.Duration(ms) * time.Millisecond
	}
	if limit, ok := parseInt("HISTORY_LIMIT", c.HistoryLimit); ok {
		unified.Session.HistoryLimit = limit
	}
	if minutes, ok := parseInt("SESSION_IDLE_TTL_MINUTES", c.SessionIdleTTLMinutes); ok {
		unified.Session.IdleTTL = time.Duration(minutes) * time.Minute
	}
	if maxSessions, ok := parseInt("MAX_SESSIONS", c.MaxSessions); ok {
		unified.Session.MaxSessions = maxSessions
	}

	unified.ValidateAndApplyDefaults()
	return unified, nil
}

func parseInt(key, value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default", key, value)
		return 0, false
	}
	return parsed, true
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
