package main

import (
	"github.com/deppfellow/gastro-routes/internal/config"
	"github.com/deppfellow/gastro-routes/internal/logger"
	"github.com/rs/zerolog"
)

// bootstrap loads configuration and builds the root logger shared by every
// subcommand. The caller owns the returned LoggerService.
func bootstrap() (*config.Config, *zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, &log, loggerService, nil
}
