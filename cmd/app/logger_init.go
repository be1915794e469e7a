package main

import (
	"github.com/mkrelic/casevault/internal/config"
	"github.com/mkrelic/casevault/internal/logger"
)

const serviceName = "casevault"

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Only attach source locations in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		serviceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
