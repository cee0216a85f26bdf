package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// ServingRepositoryImpl implements ServingRepository interface
type ServingRepositoryImpl struct {
	*BaseRepository[models.ServingSession, models.ServingSessionFilter]
}

// NewServingRepository creates a new serving repository
func NewServingRepository(db *gorm.DB) ServingRepository {
	return &ServingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServingSession, models.ServingSessionFilter](db),
	}
}

// LatestPendingByTeller returns the teller's open session, or nil when the
// teller is not serving anyone.
func (r *ServingRepositoryImpl) LatestPendingByTeller(ctx context.Context, tellerNumber string) (*models.ServingSession, error) {
	db := r.getDB(ctx)
	var session models.ServingSession
	err := db.Where("teller_number = ? AND status = ?", tellerNumber, models.ServingStatusPending).
		Order("serving_id DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// PendingByTellerAndQueue returns the open session binding the given teller to
// the given ticket, or nil when no such session exists.
func (r *ServingRepositoryImpl) PendingByTellerAndQueue(ctx context.Context, tellerNumber string, queueID uint) (*models.ServingSession, error) {
	db := r.getDB(ctx)
	var session models.ServingSession
	err := db.Where("teller_number = ? AND queue_id = ? AND status = ?",
		tellerNumber, queueID, models.ServingStatusPending).
		Order("serving_id DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// LatestByQueueID returns the most recent session for a ticket regardless of
// status, or nil when the ticket has never been called.
func (r *ServingRepositoryImpl) LatestByQueueID(ctx context.Context, queueID uint) (*models.ServingSession, error) {
	db := r.getDB(ctx)
	var session models.ServingSession
	err := db.Where("queue_id = ?", queueID).
		Order("serving_id DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ListByDateRange returns sessions whose start time falls inside [from, to),
// both civil datetimes, ordered by start ascending.
func (r *ServingRepositoryImpl) ListByDateRange(ctx context.Context, from, to string) ([]*models.ServingSession, error) {
	db := r.getDB(ctx)
	var sessions []*models.ServingSession
	err := db.Where("serving_start_time >= ? AND serving_start_time < ?", from, to).
		Order("serving_start_time ASC").
		Preload("Queue").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list serving sessions: %w", err)
	}
	return sessions, nil
}

// Close marks a session Done with the given end time and reports rows
// touched. Only Pending sessions are eligible.
func (r *ServingRepositoryImpl) Close(ctx context.Context, servingID uint, endTime time.Time) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.ServingSession{}).
		Where("serving_id = ? AND status = ?", servingID, models.ServingStatusPending).
		Updates(map[string]any{
			"status":           models.ServingStatusDone,
			"serving_end_time": endTime,
			"updated_at":       utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to close serving %d: %w", servingID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}

// MarkAnnounced flips the announce flag on a session and reports rows touched.
func (r *ServingRepositoryImpl) MarkAnnounced(ctx context.Context, servingID uint, announced bool) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.ServingSession{}).
		Where("serving_id = ?", servingID).
		Updates(map[string]any{
			"is_announce": announced,
			"updated_at":  utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to mark serving %d announced: %w", servingID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}
