package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueTicket represents one visitor's numbered place in line for a given day.
// Table: queue
// QueueNumber restarts per civil date: QueueDate holds the zero-padded
// YYYY-MM-DD branch-timezone date and carries a composite unique index with
// QueueNumber, which is the serializing backstop against concurrent issuance
// computing the same next number.
type QueueTicket struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:queue_id" json:"queue_id"`
	UUID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	QueueNumber     int       `gorm:"not null;uniqueIndex:uk_queue_date_number" json:"queue_number"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Purpose         string    `gorm:"type:text;not null;default:''" json:"purpose"`
	QueueType       string    `gorm:"size:64;not null" json:"queue_type"`
	Date            time.Time `gorm:"not null" json:"date"`
	QueueDate       string    `gorm:"size:10;not null;uniqueIndex:uk_queue_date_number;index:idx_queue_date" json:"queue_date"`
	IsActive        *bool     `gorm:"default:true;index" json:"is_active"`
	IsQueueAnnounce *bool     `gorm:"default:false" json:"is_queue_announce"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Servings []ServingSession `gorm:"foreignKey:QueueID;references:ID" json:"servings,omitempty"`
}

func (QueueTicket) TableName() string { return "queue" }

// BeforeCreate ensures the UUID is set
func (q *QueueTicket) BeforeCreate(tx *gorm.DB) error {
	if q.UUID == uuid.Nil {
		q.UUID = uuid.New()
	}
	return nil
}

// QueueTodayView is one row of the public today listing: the ticket joined
// with its most recent serving session. ServingStatus is WAITING until a
// teller has called the ticket at least once.
type QueueTodayView struct {
	QueueID         uint       `json:"queue_id"`
	QueueNumber     int        `json:"queue_number"`
	Name            string     `json:"name"`
	Purpose         string     `json:"purpose"`
	QueueType       string     `json:"queue_type"`
	Date            time.Time  `json:"date"`
	QueueDate       string     `json:"queue_date"`
	IsQueueAnnounce *bool      `json:"is_queue_announce"`
	ServingID       *uint      `json:"serving_id"`
	TellerNumber    *string    `json:"teller_number"`
	ServingStatus   string     `json:"status"`
	IsAnnounce      *bool      `json:"isAnnounce"`
	ServingStart    *time.Time `json:"serving_start_time"`
	ServingEnd      *time.Time `json:"serving_end_time"`
}

// QueueTicketFilter represents filter criteria for queue ticket queries
type QueueTicketFilter struct {
	ID          *uint   `json:"queue_id,omitempty"`
	QueueNumber *int    `json:"queue_number,omitempty"`
	QueueDate   *string `json:"queue_date,omitempty"`
	QueueType   *string `json:"queue_type,omitempty"`
	Name        *string `json:"name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
