package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// UnifiedConfiguration holds all configuration parameters for the entire application
type UnifiedConfiguration struct {
	Service ServiceConfig `json:"service" yaml:"service"`
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
	Session SessionConfig `json:"session" yaml:"session"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ServiceConfig holds HTTP service configuration
type ServiceConfig struct {
	Port            string        `json:"port" yaml:"port"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	EnableMetrics   bool          `json:"enable_metrics" yaml:"enable_metrics"`
	MetricsInterval time.Duration `json:"metrics_interval" yaml:"metrics_interval"`
}

// LookupConfig holds lookup backend configuration
type LookupConfig struct {
	SimulatedLatency time.Duration `json:"simulated_latency" yaml:"simulated_latency"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	MaxFailureRate   float64       `json:"max_failure_rate" yaml:"max_failure_rate"`
}

// SessionConfig holds search session configuration
type SessionConfig struct {
	HistoryLimit      int           `json:"history_limit" yaml:"history_limit"`
	NotificationLimit int           `json:"notification_limit" yaml:"notification_limit"`
	MaxSessions       int           `json:"max_sessions" yaml:"max_sessions"`
	IdleTTL           time.Duration `json:"idle_ttl" yaml:"idle_ttl"`
	CleanupInterval   time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// ExportConfig holds result export configuration
type ExportConfig struct {
	Directory string `json:"directory" yaml:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Format      string `json:"format" yaml:"format"`
	ServiceName string `json:"service_name" yaml:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Service: ServiceConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
			EnableMetrics:   true,
			MetricsInterval: 15 * time.Minute,
		},
		Lookup: LookupConfig{
			SimulatedLatency: 2 * time.Second,
			Timeout:          10 * time.Second,
			MaxFailureRate:   0.5,
		},
		Session: SessionConfig{
			HistoryLimit:      10,
			NotificationLimit: 20,
			MaxSessions:       1000,
			IdleTTL:           30 * time.Minute,
			CleanupInterval:   5 * time.Minute,
		},
		Export: ExportConfig{
			Directory: "exports",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			ServiceName: "shadowtrace-backend",
		},
	}
}

// ValidateAndApplyDefaults validates configuration and applies defaults for invalid values
func (c *UnifiedConfiguration) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "UnifiedConfiguration")
	defaults := NewDefaultUnifiedConfiguration()

	if c.Service.Port == "" {
		c.Service.Port = defaults.Service.Port
		logger.Debug("Applied default Service.Port")
	}

	if c.Service.ShutdownTimeout <= 0 {
		c.Service.ShutdownTimeout = defaults.Service.ShutdownTimeout
		logger.Debug("Applied default Service.ShutdownTimeout")
	}

	if c.Service.MetricsInterval <= 0 {
		c.Service.MetricsInterval = defaults.Service.MetricsInterval
		logger.Debug("Applied default Service.MetricsInterval")
	}

	// Zero latency is allowed and used by tests
	if c.Lookup.SimulatedLatency < 0 {
		c.Lookup.SimulatedLatency = defaults.Lookup.SimulatedLatency
		logger.Debug("Applied default Lookup.SimulatedLatency")
	}

	if c.Lookup.Timeout <= 0 {
		c.Lookup.Timeout = defaults.Lookup.Timeout
		logger.Debug("Applied default Lookup.Timeout")
	}

	if c.Lookup.Timeout <= c.Lookup.SimulatedLatency {
		c.Lookup.Timeout = c.Lookup.SimulatedLatency + defaults.Lookup.Timeout
		logger.Warn("Lookup.Timeout must exceed Lookup.SimulatedLatency, extended")
	}

	if c.Lookup.MaxFailureRate == 0 || c.Lookup.MaxFailureRate > 1 {
		c.Lookup.MaxFailureRate = defaults.Lookup.MaxFailureRate
		logger.Debug("Applied default Lookup.MaxFailureRate")
	}

	if c.Session.HistoryLimit <= 0 {
		c.Session.HistoryLimit = defaults.Session.HistoryLimit
		logger.Debug("Applied default Session.HistoryLimit")
	}

	if c.Session.NotificationLimit <= 0 {
		c.Session.NotificationLimit = defaults.Session.NotificationLimit
		logger.Debug("Applied default Session.NotificationLimit")
	}

	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = defaults.Session.MaxSessions
		logger.Debug("Applied default Session.MaxSessions")
	}

	if c.Session.IdleTTL <= 0 {
		c.Session.IdleTTL = defaults.Session.IdleTTL
		logger.Debug("Applied default Session.IdleTTL")
	}

	if c.Session.CleanupInterval <= 0 {
		c.Session.CleanupInterval = defaults.Session.CleanupInterval
		logger.Debug("Applied default Session.CleanupInterval")
	}

	if c.Export.Directory == "" {
		c.Export.Directory = defaults.Export.Directory
		logger.Debug("Applied default Export.Directory")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		logger.Debug("Applied default Logging.Level")
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
		logger.Debug("Applied default Logging.Format")
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = defaults.Logging.ServiceName
		logger.Debug("Applied default Logging.ServiceName")
	}
}

var configJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON serializes the configuration to JSON
func (c *UnifiedConfiguration) ToJSON() ([]byte, error) {
	return configJSON.MarshalIndent(c, "", "  ")
}

// LoadFromJSON deserializes configuration from JSON
func (c *UnifiedConfiguration) LoadFromJSON(jsonData []byte) error {
	if err := configJSON.Unmarshal(jsonData, c); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	c.ValidateAndApplyDefaults()
	return nil
}

// LoadFromYAML overlays YAML configuration on top of the current values
func (c *UnifiedConfiguration) LoadFromYAML(yamlData []byte) error {
	if err := yaml.Unmarshal(yamlData, c); err != nil {
		return fmt.Errorf("failed to unmarshal yaml configuration: %w", err)
	}
	c.ValidateAndApplyDefaults()
	return nil
}

// LoadFile overlays the config file at path, JSON when the extension is
// .json and YAML otherwise. A missing file is not an error.
func (c *UnifiedConfiguration) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithFields(logrus.Fields{
				"component": "UnifiedConfiguration",
				"path":      path,
			}).Warn("Config file not found, keeping current configuration")
			return nil
		}
		return NewServiceError(ErrorCategoryConfiguration, "CONFIG_READ_FAILED",
			fmt.Sprintf("failed to read config file %s", path), "config", "LoadFile", false, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return c.LoadFromJSON(data)
	}
	return c.LoadFromYAML(data)
}
