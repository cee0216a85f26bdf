// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/drey/queueline/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
}

// QueueRepository defines operations for queue tickets
type QueueRepository interface {
	Repository[models.QueueTicket, models.QueueTicketFilter]
	ByUUID(ctx context.Context, uuid string) (*models.QueueTicket, error)
	MaxQueueNumberForDate(ctx context.Context, queueDate string) (int, error)
	ListTodayWithServing(ctx context.Context, queueDate string) ([]*models.QueueTodayView, error)
	ListByDate(ctx context.Context, queueDate string) ([]*models.QueueTicket, error)
	MarkAnnounced(ctx context.Context, queueID uint, announced bool) (int64, error)
}

// ServingRepository defines operations for serving sessions
type ServingRepository interface {
	Repository[models.ServingSession, models.ServingSessionFilter]
	LatestPendingByTeller(ctx context.Context, tellerNumber string) (*models.ServingSession, error)
	PendingByTellerAndQueue(ctx context.Context, tellerNumber string, queueID uint) (*models.ServingSession, error)
	LatestByQueueID(ctx context.Context, queueID uint) (*models.ServingSession, error)
	ListByDateRange(ctx context.Context, from, to string) ([]*models.ServingSession, error)
	Close(ctx context.Context, servingID uint, endTime time.Time) (int64, error)
	MarkAnnounced(ctx context.Context, servingID uint, announced bool) (int64, error)
}

// QueueStatusRepository defines operations for the singleton queue gate
type QueueStatusRepository interface {
	Current(ctx context.Context) (*models.QueueSystemStatus, error)
	SetStatus(ctx context.Context, status string) (*models.QueueSystemStatus, error)
}

// UserRepository defines operations for login accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUserID(ctx context.Context, userID string) (*models.User, error)
	UpdateFields(ctx context.Context, userID string, update models.UserUpdate) (int64, error)
}

// EmployeeRepository defines operations for employee records
type EmployeeRepository interface {
	Repository[models.Employee, models.EmployeeFilter]
	ByUserID(ctx context.Context, userID string) (*models.Employee, error)
	ListAll(ctx context.Context) ([]*models.Employee, error)
	UpdateFields(ctx context.Context, userID string, update models.EmployeeUpdate) (int64, error)
}

// VideoAdRepository defines operations for lobby video ads
type VideoAdRepository interface {
	Repository[models.VideoAd, models.VideoAdFilter]
	ActiveAd(ctx context.Context) (*models.VideoAd, error)
	ListAll(ctx context.Context) ([]*models.VideoAd, error)
	DeactivateAll(ctx context.Context) error
	Update(ctx context.Context, ad *models.VideoAd) (int64, error)
}
