package config

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"autix_backend/models"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Error().Err(err).Msg("failed to migrate database schema")
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// ResetAndMigrate drops every table, recreates the schema and seeds it.
func ResetAndMigrate(db *gorm.DB) error {
	tables := models.All()

	// Drop children before the rows they reference.
	reversed := make([]any, len(tables))
	for i, m := range tables {
		reversed[len(tables)-1-i] = m
	}
	if err := db.Migrator().DropTable(reversed...); err != nil {
		log.Error().Err(err).Msg("failed to drop tables")
		return err
	}

	log.Info().Msg("all tables dropped")

	if err := Migrate(db); err != nil {
		return err
	}

	if _, err := Seed(db); err != nil {
		return err
	}

	log.Info().Msg("database reset and migration completed")
	return nil
}
