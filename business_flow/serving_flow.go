package businessflow

import (
	"context"
	"strings"

	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/app/services"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// ServingFlow defines operations for teller serving coordination
type ServingFlow interface {
	StartServing(ctx context.Context, req *dto.StartServingRequest, metadata *ClientMetadata) (*dto.StartServingResponse, error)
	MarkServingDone(ctx context.Context, req *dto.MarkServingDoneRequest, metadata *ClientMetadata) (*dto.StatusMessageResponse, error)
	UpdateServingAnnounce(ctx context.Context, req *dto.UpdateServingAnnounceRequest) error
}

// ServingFlowImpl implements ServingFlow
type ServingFlowImpl struct {
	db          *gorm.DB
	queueRepo   repository.QueueRepository
	servingRepo repository.ServingRepository
	publisher   services.EventPublisher
}

func NewServingFlow(db *gorm.DB, queueRepo repository.QueueRepository, servingRepo repository.ServingRepository, publisher services.EventPublisher) ServingFlow {
	return &ServingFlowImpl{db: db, queueRepo: queueRepo, servingRepo: servingRepo, publisher: publisher}
}

// StartServing calls a ticket to a teller window. The teller's previous open
// session, if any, is closed inside the same transaction that opens the new
// one, so a teller never has two Pending sessions.
func (f *ServingFlowImpl) StartServing(ctx context.Context, req *dto.StartServingRequest, metadata *ClientMetadata) (*dto.StartServingResponse, error) {
	if req.QueueID == 0 || strings.TrimSpace(req.TellerNumber) == "" {
		return nil, NewBusinessError("INVALID_REQUEST", "queue_id and teller_number are required", nil)
	}

	now, err := utils.BranchNow()
	if err != nil {
		return nil, NewBusinessError("CLOCK_UNAVAILABLE", "failed to resolve branch time", ErrClockUnavailable)
	}

	ticket, err := f.queueRepo.ByID(ctx, req.QueueID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrQueueNotFound
	}

	teller := strings.TrimSpace(req.TellerNumber)
	var closedPrev *models.ServingSession
	var session *models.ServingSession
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		prev, err := f.servingRepo.LatestPendingByTeller(txCtx, teller)
		if err != nil {
			return err
		}
		if prev != nil {
			if _, err := f.servingRepo.Close(txCtx, prev.ID, now); err != nil {
				return err
			}
			closedPrev = prev
		}

		session = &models.ServingSession{
			QueueID:      req.QueueID,
			TellerNumber: teller,
			Status:       models.ServingStatusPending,
			StartTime:    now,
			IsAnnounce:   utils.ToPtr(false),
		}
		return f.servingRepo.Save(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	if closedPrev != nil {
		closedPrev.Status = models.ServingStatusDone
		closedPrev.EndTime = &now
		prevTicket, err := f.queueRepo.ByID(ctx, closedPrev.QueueID)
		if err == nil && prevTicket != nil {
			f.publisher.Publish(services.EventQueueUpdated, ServingToView(prevTicket, closedPrev))
		}
	}

	view := ServingToView(ticket, session)
	f.publisher.Publish(services.EventQueueCreated, view)

	return &dto.StartServingResponse{Status: "success", Data: view}, nil
}

// MarkServingDone closes the open session binding the teller to the ticket.
// Repeating the call fails the same way a wrong pairing does: there is no
// longer an open session to close.
func (f *ServingFlowImpl) MarkServingDone(ctx context.Context, req *dto.MarkServingDoneRequest, metadata *ClientMetadata) (*dto.StatusMessageResponse, error) {
	if req.QueueID == 0 || strings.TrimSpace(req.TellerNumber) == "" {
		return nil, NewBusinessError("INVALID_REQUEST", "queue_id and teller_number are required", nil)
	}

	now, err := utils.BranchNow()
	if err != nil {
		return nil, NewBusinessError("CLOCK_UNAVAILABLE", "failed to resolve branch time", ErrClockUnavailable)
	}

	teller := strings.TrimSpace(req.TellerNumber)
	var session *models.ServingSession
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		found, err := f.servingRepo.PendingByTellerAndQueue(txCtx, teller, req.QueueID)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrNotServing
		}

		affected, err := f.servingRepo.Close(txCtx, found.ID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotServing
		}
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.Status = models.ServingStatusDone
	session.EndTime = &now
	ticket, err := f.queueRepo.ByID(ctx, session.QueueID)
	if err == nil && ticket != nil {
		f.publisher.Publish(services.EventQueueUpdated, ServingToView(ticket, session))
	}

	return &dto.StatusMessageResponse{Status: "success", Message: "Serving marked as done"}, nil
}

// UpdateServingAnnounce flips the announce flag on a serving session
func (f *ServingFlowImpl) UpdateServingAnnounce(ctx context.Context, req *dto.UpdateServingAnnounceRequest) error {
	affected, err := f.servingRepo.MarkAnnounced(ctx, req.ServingID, utils.IsTrue(req.IsAnnounce))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrServingNotFound
	}
	return nil
}
