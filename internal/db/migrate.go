package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"ecomstore/internal/model"
)

// Models lists every table, in creation order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Review{},
	}
}

// Migrate creates or updates the schema. With reset the tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log zerolog.Logger) error {
	if reset {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.Warn().Err(err).Msg("failed to drop table (may not exist)")
			}
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
