package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// QueueStatusRepositoryImpl implements QueueStatusRepository interface
type QueueStatusRepositoryImpl struct {
	db *gorm.DB
}

// NewQueueStatusRepository creates a new queue status repository
func NewQueueStatusRepository(db *gorm.DB) QueueStatusRepository {
	return &QueueStatusRepositoryImpl{db: db}
}

func (r *QueueStatusRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Current returns the singleton gate row, or nil when it was never seeded.
func (r *QueueStatusRepositoryImpl) Current(ctx context.Context) (*models.QueueSystemStatus, error) {
	db := r.getDB(ctx)
	var status models.QueueSystemStatus
	err := db.Order("id DESC").First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read queue status: %w", err)
	}
	return &status, nil
}

// SetStatus updates the singleton gate row, creating it on first use.
func (r *QueueStatusRepositoryImpl) SetStatus(ctx context.Context, status string) (*models.QueueSystemStatus, error) {
	db := r.getDB(ctx)

	current := &models.QueueSystemStatus{}
	err := db.Order("id DESC").First(current).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to read queue status: %w", err)
		}
		current = &models.QueueSystemStatus{Status: status, UpdatedAt: utils.UTCNow()}
		if err := db.Create(current).Error; err != nil {
			return nil, fmt.Errorf("failed to seed queue status: %w", err)
		}
		return current, nil
	}

	result := db.Model(current).Updates(map[string]any{
		"queue_status": status,
		"updated_at":   utils.UTCNow(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update queue status: %w", result.Error)
	}
	current.Status = status
	return current, nil
}
