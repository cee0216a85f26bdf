package models

import "time"

// QueueSystemStatus is the singleton Open/Closed gate controlling whether new
// tickets may be issued. Externally administered, read at the start of every
// ticket-issuance transaction so multiple server instances never act on a
// stale in-process copy.
// Table: queue_status
type QueueSystemStatus struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Status    string    `gorm:"column:queue_status;size:32;not null" json:"queue_status"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (QueueSystemStatus) TableName() string { return "queue_status" }
