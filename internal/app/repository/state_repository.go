package repository

import (
	"context"
	"errors"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRepository is the key/value boundary session state is persisted
// through. Values are opaque JSON strings; a missing key reports ok=false.
type StateRepository interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type gormStateRepository struct {
	db *gorm.DB
}

func NewGormStateRepository(db *gorm.DB) StateRepository {
	return &gormStateRepository{db: db}
}

func (r *gormStateRepository) Load(ctx context.Context, key string) (string, bool, error) {
	logger.Debug("Loading state from database", map[string]interface{}{
		"key": key,
	})

	var row model.StoredState
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		logger.Error("Failed to load state from database", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return row.Value, true, nil
}

func (r *gormStateRepository) Save(ctx context.Context, key, value string) error {
	row := model.StoredState{Key: key, Value: value, UpdatedAt: time.Now()}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		logger.Error("Failed to save state to database", err, map[string]interface{}{
			"key":   key,
			"bytes": len(value),
		})
		return err
	}

	logger.Debug("State saved to database", map[string]interface{}{
		"key":   key,
		"bytes": len(value),
	})
	return nil
}

func (r *gormStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.StoredState{}).Error; err != nil {
		logger.Error("Failed to delete state from database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
