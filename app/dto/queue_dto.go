// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"

	"github.com/drey/queueline/models"
)

// CreateQueueRequest represents the request payload for taking a new ticket
type CreateQueueRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255" example:"Juan Dela Cruz"`
	QueueType string `json:"queue_type" validate:"required,min=1,max=64" example:"Payment"`
	Purpose   string `json:"purpose" validate:"omitempty,max=1000" example:"Pay water bill"`
}

// CreateQueueResponse mirrors the original ticket-issuance wire contract
type CreateQueueResponse struct {
	Status      string `json:"status" example:"success"`
	Message     string `json:"message" example:"Queue created successfully"`
	QueueNumber int    `json:"queue_number" example:"42"`
}

// TodayQueueResponse mirrors the original display-board listing envelope
type TodayQueueResponse struct {
	IsError     bool                     `json:"isError" example:"false"`
	QueueStatus string                   `json:"que_status" example:"Open"`
	Message     string                   `json:"message" example:"Fetched today's queue"`
	Data        []*models.QueueTodayView `json:"data"`
	Date        string                   `json:"date" example:"2025-03-14 09:30:00"`
}

// TodayQueueErrorResponse is the failure shape of the display-board listing
type TodayQueueErrorResponse struct {
	IsError bool   `json:"isError" example:"true"`
	Message string `json:"message" example:"Failed to fetch today's queue"`
}

// UpdateQueueAnnounceRequest flips the announce flag on a ticket
type UpdateQueueAnnounceRequest struct {
	QueueID         uint  `json:"queue_id" validate:"required" example:"17"`
	IsQueueAnnounce *bool `json:"is_queue_announce" validate:"required" example:"true"`
}

// SetQueueStatusRequest updates the singleton issuance gate
type SetQueueStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Open Closed" example:"Open"`
}

// QueueStatusResponse reports the current issuance gate value
type QueueStatusResponse struct {
	Status    string    `json:"status" example:"success"`
	Gate      string    `json:"que_status" example:"Open"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusMessageResponse is the minimal success envelope shared by the
// announce and done endpoints
type StatusMessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Updated successfully"`
}

// StatusErrorResponse is the minimal failure envelope for queue endpoints
type StatusErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"Time already Cut-Off, Please inquire inside"`
}
