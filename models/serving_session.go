package models

import (
	"time"
)

// Serving session statuses. A session is Pending from the moment a teller
// calls a ticket until it is closed, either explicitly or by the same teller
// calling the next ticket.
const (
	ServingStatusPending = "Pending"
	ServingStatusDone    = "Done"
)

// ServingSession represents one teller's act of handling one queue ticket,
// bounded by start and end timestamps.
// Table: serving
// Invariants: at most one Pending session per teller at any instant;
// EndTime is set iff Status is Done. Sessions are never deleted.
type ServingSession struct {
	ID           uint       `gorm:"primaryKey;autoIncrement;column:serving_id" json:"serving_id"`
	QueueID      uint       `gorm:"not null;index" json:"queue_id"`
	TellerNumber string     `gorm:"size:32;not null;index" json:"teller_number"`
	Status       string     `gorm:"size:16;not null;default:'Pending';index" json:"status"`
	StartTime    time.Time  `gorm:"column:serving_start_time;not null" json:"serving_start_time"`
	EndTime      *time.Time `gorm:"column:serving_end_time" json:"serving_end_time,omitempty"`
	IsAnnounce   *bool      `gorm:"default:false" json:"is_announce"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Queue *QueueTicket `gorm:"foreignKey:QueueID;references:ID;constraint:OnDelete:CASCADE" json:"queue,omitempty"`
}

func (ServingSession) TableName() string { return "serving" }

// ServingSessionFilter represents filter criteria for serving session queries
type ServingSessionFilter struct {
	ID           *uint   `json:"serving_id,omitempty"`
	QueueID      *uint   `json:"queue_id,omitempty"`
	TellerNumber *string `json:"teller_number,omitempty"`
	Status       *string `json:"status,omitempty"`
}
