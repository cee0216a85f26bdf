// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for logging and tracing
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToEmployeeView builds the listing row from the employee record and its
// linked account.
func ToEmployeeView(employee *models.Employee, user *models.User) *dto.EmployeeView {
	view := &dto.EmployeeView{
		UserID:     employee.UserID,
		Name:       employee.Name,
		Email:      employee.Email,
		Role:       employee.Role,
		IsActive:   employee.IsActive,
		DateJoined: employee.DateJoined,
	}
	if user != nil {
		view.Username = user.Username
		view.UserType = user.UserType
	}
	return view
}

// TicketToView builds the composite board view for a freshly issued ticket
// that no teller has called yet.
func TicketToView(ticket *models.QueueTicket) *models.QueueTodayView {
	return &models.QueueTodayView{
		QueueID:         ticket.ID,
		QueueNumber:     ticket.QueueNumber,
		Name:            ticket.Name,
		Purpose:         ticket.Purpose,
		QueueType:       ticket.QueueType,
		Date:            ticket.Date,
		QueueDate:       ticket.QueueDate,
		IsQueueAnnounce: ticket.IsQueueAnnounce,
		ServingStatus:   utils.ServingStatusWaiting,
	}
}

// ServingToView builds the composite board view for a ticket joined with one
// of its serving sessions.
func ServingToView(ticket *models.QueueTicket, session *models.ServingSession) *models.QueueTodayView {
	view := TicketToView(ticket)
	if session != nil {
		id := session.ID
		view.ServingID = &id
		view.TellerNumber = &session.TellerNumber
		view.ServingStatus = session.Status
		view.IsAnnounce = session.IsAnnounce
		start := session.StartTime
		view.ServingStart = &start
		view.ServingEnd = session.EndTime
	}
	return view
}
