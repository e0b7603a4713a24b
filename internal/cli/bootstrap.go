package cli

import (
	"fmt"

	"gorm.io/gorm"

	"autix_backend/config"
	"autix_backend/internal/logger"
)

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap(opts *RootOptions) (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	db, err := config.ConnectDatabase(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
