package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/app/services"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	"github.com/drey/queueline/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// QueueFlow defines operations for issuing and listing queue tickets
type QueueFlow interface {
	CreateQueue(ctx context.Context, req *dto.CreateQueueRequest, metadata *ClientMetadata) (*dto.CreateQueueResponse, error)
	GetQueuesToday(ctx context.Context) (*dto.TodayQueueResponse, error)
	UpdateQueueAnnounce(ctx context.Context, req *dto.UpdateQueueAnnounceRequest) error
	GetQueueStatus(ctx context.Context) (*dto.QueueStatusResponse, error)
	SetQueueStatus(ctx context.Context, req *dto.SetQueueStatusRequest) (*dto.QueueStatusResponse, error)
	ExportTodayReport(ctx context.Context) (*bytes.Buffer, string, error)
}

// QueueFlowImpl implements QueueFlow
type QueueFlowImpl struct {
	db         *gorm.DB
	queueRepo  repository.QueueRepository
	statusRepo repository.QueueStatusRepository
	publisher  services.EventPublisher
}

func NewQueueFlow(db *gorm.DB, queueRepo repository.QueueRepository, statusRepo repository.QueueStatusRepository, publisher services.EventPublisher) QueueFlow {
	return &QueueFlowImpl{db: db, queueRepo: queueRepo, statusRepo: statusRepo, publisher: publisher}
}

// CreateQueue issues the next sequential ticket for today. The gate check and
// the number computation share one transaction with the insert; the composite
// unique index on (queue_date, queue_number) catches concurrent issuers that
// computed the same next number.
func (f *QueueFlowImpl) CreateQueue(ctx context.Context, req *dto.CreateQueueRequest, metadata *ClientMetadata) (*dto.CreateQueueResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.QueueType) == "" {
		return nil, NewBusinessError("INVALID_REQUEST", "name and queue_type are required", nil)
	}

	now, err := utils.BranchNow()
	if err != nil {
		return nil, NewBusinessError("CLOCK_UNAVAILABLE", "failed to resolve branch time", ErrClockUnavailable)
	}
	today := utils.CivilDate(now)

	var created *models.QueueTicket
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		status, err := f.statusRepo.Current(txCtx)
		if err != nil {
			return err
		}
		if status == nil || status.Status != utils.QueueStatusOpen {
			return ErrQueueClosed
		}

		max, err := f.queueRepo.MaxQueueNumberForDate(txCtx, today)
		if err != nil {
			return err
		}

		ticket := &models.QueueTicket{
			QueueNumber:     max + 1,
			Name:            strings.TrimSpace(req.Name),
			Purpose:         strings.TrimSpace(req.Purpose),
			QueueType:       strings.TrimSpace(req.QueueType),
			Date:            now,
			QueueDate:       today,
			IsActive:        utils.ToPtr(true),
			IsQueueAnnounce: utils.ToPtr(false),
		}
		if err := f.queueRepo.Save(txCtx, ticket); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateQueueNumber
			}
			return err
		}
		created = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.publisher.Publish(services.EventQueueCreated, TicketToView(created))

	return &dto.CreateQueueResponse{
		Status:      "success",
		Message:     "Queue created successfully",
		QueueNumber: created.QueueNumber,
	}, nil
}

// GetQueuesToday returns the display-board listing: gate status plus today's
// tickets joined with their latest serving session.
func (f *QueueFlowImpl) GetQueuesToday(ctx context.Context) (*dto.TodayQueueResponse, error) {
	now, err := utils.BranchNow()
	if err != nil {
		return nil, NewBusinessError("CLOCK_UNAVAILABLE", "failed to resolve branch time", ErrClockUnavailable)
	}

	gate := utils.QueueStatusUnavailable
	status, err := f.statusRepo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if status != nil {
		gate = status.Status
	}

	rows, err := f.queueRepo.ListTodayWithServing(ctx, utils.CivilDate(now))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.QueueTodayView{}
	}

	message := "Success"
	if len(rows) == 0 {
		message = "No data"
	}

	return &dto.TodayQueueResponse{
		IsError:     false,
		QueueStatus: gate,
		Message:     message,
		Data:        rows,
		Date:        utils.CivilDateTime(now),
	}, nil
}

// UpdateQueueAnnounce flips the announce flag on a ticket
func (f *QueueFlowImpl) UpdateQueueAnnounce(ctx context.Context, req *dto.UpdateQueueAnnounceRequest) error {
	affected, err := f.queueRepo.MarkAnnounced(ctx, req.QueueID, utils.IsTrue(req.IsQueueAnnounce))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQueueNotFound
	}
	return nil
}

// GetQueueStatus reports the current issuance gate
func (f *QueueFlowImpl) GetQueueStatus(ctx context.Context) (*dto.QueueStatusResponse, error) {
	status, err := f.statusRepo.Current(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.QueueStatusResponse{Status: "success", Gate: utils.QueueStatusUnavailable}
	if status != nil {
		resp.Gate = status.Status
		resp.UpdatedAt = status.UpdatedAt
	}
	return resp, nil
}

// SetQueueStatus opens or closes the issuance gate
func (f *QueueFlowImpl) SetQueueStatus(ctx context.Context, req *dto.SetQueueStatusRequest) (*dto.QueueStatusResponse, error) {
	status, err := f.statusRepo.SetStatus(ctx, req.Status)
	if err != nil {
		return nil, err
	}
	return &dto.QueueStatusResponse{
		Status:    "success",
		Gate:      status.Status,
		UpdatedAt: status.UpdatedAt,
	}, nil
}

var reportHeaders = []string{"Queue #", "Name", "Purpose", "Type", "Teller", "Status", "Serving Start", "Serving End"}

// ExportTodayReport renders today's queue log as an Excel workbook for branch
// supervisors. Returns the workbook bytes and a dated filename.
func (f *QueueFlowImpl) ExportTodayReport(ctx context.Context) (*bytes.Buffer, string, error) {
	now, err := utils.BranchNow()
	if err != nil {
		return nil, "", NewBusinessError("CLOCK_UNAVAILABLE", "failed to resolve branch time", ErrClockUnavailable)
	}
	today := utils.CivilDate(now)

	rows, err := f.queueRepo.ListTodayWithServing(ctx, today)
	if err != nil {
		return nil, "", err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Queue Log"
	idx, err := wb.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	wb.SetActiveSheet(idx)
	_ = wb.DeleteSheet("Sheet1")

	for col, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, row := range rows {
		values := []any{
			row.QueueNumber,
			row.Name,
			row.Purpose,
			row.QueueType,
			deref(row.TellerNumber),
			row.ServingStatus,
			formatClock(row.ServingStart),
			formatClock(row.ServingEnd),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := wb.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf, fmt.Sprintf("queue-log-%s.xlsx", today), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return utils.ClockTime(*t)
}
