package dto

import (
	"github.com/drey/queueline/models"
)

// StartServingRequest binds a teller to a ticket
type StartServingRequest struct {
	QueueID      uint   `json:"queue_id" validate:"required" example:"17"`
	TellerNumber string `json:"teller_number" validate:"required,min=1,max=32" example:"3"`
}

// StartServingResponse carries the fresh composite view of the called ticket
type StartServingResponse struct {
	Status string                 `json:"status" example:"success"`
	Data   *models.QueueTodayView `json:"data"`
}

// MarkServingDoneRequest closes the session binding a teller to a ticket
type MarkServingDoneRequest struct {
	QueueID      uint   `json:"queue_id" validate:"required" example:"17"`
	TellerNumber string `json:"teller_number" validate:"required,min=1,max=32" example:"3"`
}

// UpdateServingAnnounceRequest flips the announce flag on a serving session
type UpdateServingAnnounceRequest struct {
	ServingID  uint  `json:"serving_id" validate:"required" example:"23"`
	IsAnnounce *bool `json:"isAnnounce" validate:"required" example:"true"`
}
