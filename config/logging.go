package config

import (
	"os"

	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/sirupsen/logrus"
)

// serviceFieldHook stamps every entry with the configured service name
type serviceFieldHook struct {
	serviceName string
}

func (h serviceFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceFieldHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.serviceName
	}
	return nil
}

// ConfigureLogging applies level and format to the standard logrus logger
func ConfigureLogging(cfg shared.LoggingConfig) {
	configureLogger(logrus.StandardLogger(), cfg)
}

func configureLogger(logger *logrus.Logger, cfg shared.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.ServiceName != "" {
		logger.AddHook(serviceFieldHook{serviceName: cfg.ServiceName})
	}
}
