package db

import (
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

func models() []interface{} {
	return []interface{}{
		&model.StoredState{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	list := models()
	if err := db.AutoMigrate(list...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(list),
	})
	return nil
}

// PurgeStaleStates deletes stored session state not written since the cutoff.
func PurgeStaleStates(db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := db.Where("updated_at < ?", cutoff).Delete(&model.StoredState{})
	if result.Error != nil {
		logger.Error("Failed to purge stale session state", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("Purged stale session state", map[string]interface{}{
			"rows":   result.RowsAffected,
			"cutoff": cutoff,
		})
	}
	return result.RowsAffected, nil
}
