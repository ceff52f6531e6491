package main

import (
	"os"

	"github.com/lpernett/godotenv"
	"go.uber.org/zap"

	"imagelab/internal/config"
	"imagelab/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// A .env file is optional; env vars override the YAML config either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to load .env file", zap.Error(err))
	}

	cfgPath := "configs/config.yml"
	if v := os.Getenv("IMAGELAB_CONFIG"); v != "" {
		cfgPath = v
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	srv := server.NewGeneratorServer(cfg, logger)
	srv.Run(cfg.Generator.Port)
}
