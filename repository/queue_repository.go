package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// QueueRepositoryImpl implements QueueRepository interface
type QueueRepositoryImpl struct {
	*BaseRepository[models.QueueTicket, models.QueueTicketFilter]
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *gorm.DB) QueueRepository {
	return &QueueRepositoryImpl{
		BaseRepository: NewBaseRepository[models.QueueTicket, models.QueueTicketFilter](db),
	}
}

// ByUUID finds a queue ticket by UUID
func (r *QueueRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.QueueTicket, error) {
	db := r.getDB(ctx)
	var ticket models.QueueTicket
	err := db.Where("uuid = ?", uuid).Last(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// MaxQueueNumberForDate returns the highest queue number issued on the given
// civil date, or 0 when no ticket exists for that date yet.
func (r *QueueRepositoryImpl) MaxQueueNumberForDate(ctx context.Context, queueDate string) (int, error) {
	db := r.getDB(ctx)
	var max int
	err := db.Model(&models.QueueTicket{}).
		Where("queue_date = ?", queueDate).
		Select("COALESCE(MAX(queue_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max queue number for %s: %w", queueDate, err)
	}
	return max, nil
}

// ListTodayWithServing returns every active ticket issued on the given date
// joined with its latest serving session, ordered by queue number ascending.
// Soft-retired tickets stay off the board. Tickets no teller has called yet
// carry the WAITING placeholder status.
func (r *QueueRepositoryImpl) ListTodayWithServing(ctx context.Context, queueDate string) ([]*models.QueueTodayView, error) {
	db := r.getDB(ctx)
	var rows []*models.QueueTodayView
	err := db.Model(&models.QueueTicket{}).
		Select(`queue.queue_id, queue.queue_number, queue.name, queue.purpose, queue.queue_type,
			queue.date, queue.queue_date, queue.is_queue_announce,
			serving.serving_id AS serving_id, serving.teller_number,
			COALESCE(serving.status, ?) AS serving_status, serving.is_announce,
			serving.serving_start_time AS serving_start, serving.serving_end_time AS serving_end`,
			utils.ServingStatusWaiting).
		Joins(`LEFT JOIN serving ON serving.serving_id = (
			SELECT MAX(s2.serving_id) FROM serving s2 WHERE s2.queue_id = queue.queue_id)`).
		Where("queue.queue_date = ?", queueDate).
		Where("queue.is_active = ?", true).
		Order("queue.queue_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list today's queue: %w", err)
	}
	return rows, nil
}

// ListByDate returns every ticket issued on the given civil date, ordered by
// queue number ascending.
func (r *QueueRepositoryImpl) ListByDate(ctx context.Context, queueDate string) ([]*models.QueueTicket, error) {
	db := r.getDB(ctx)
	var tickets []*models.QueueTicket
	err := db.Where("queue_date = ?", queueDate).
		Order("queue_number ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list queue for %s: %w", queueDate, err)
	}
	return tickets, nil
}

// MarkAnnounced flips the announce flag on a ticket and reports how many rows
// were touched so callers can detect an unknown ID.
func (r *QueueRepositoryImpl) MarkAnnounced(ctx context.Context, queueID uint, announced bool) (int64, error) {
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

	result := db.Model(&models.QueueTicket{}).
		Where("queue_id = ?", queueID).
		Updates(map[string]any{
			"is_queue_announce": announced,
			"updated_at":        utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to mark queue %d announced: %w", queueID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}
