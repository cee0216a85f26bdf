package handlers

import (
	"context"
	"time"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// QueueHandlerInterface defines the contract for queue handlers
type QueueHandlerInterface interface {
	Create(c fiber.Ctx) error
	ListToday(c fiber.Ctx) error
	UpdateAnnounce(c fiber.Ctx) error
	GetStatus(c fiber.Ctx) error
	SetStatus(c fiber.Ctx) error
	ExportReport(c fiber.Ctx) error
}

// QueueHandler handles queue ticket HTTP requests. The today listing and the
// create endpoint keep the display boards' original wire envelopes.
type QueueHandler struct {
	flow      businessflow.QueueFlow
	validator *validator.Validate
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(flow businessflow.QueueFlow) *QueueHandler {
	return &QueueHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create issues the next ticket for today
func (h *QueueHandler) Create(c fiber.Ctx) error {
	var req dto.CreateQueueRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "name and queue_type are required",
		})
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateQueue(h.createRequestContext(c, "/api/v1/queue/create"), &req, metadata)
	if err != nil {
		if businessflow.IsQueueClosed(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: businessflow.QueueClosedMessage,
			})
		}
		if businessflow.IsDuplicateQueueNumber(err) {
			return c.Status(fiber.StatusConflict).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: "Queue number already taken, please retry",
			})
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "INVALID_REQUEST" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: be.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to create queue",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListToday returns the display-board listing
func (h *QueueHandler) ListToday(c fiber.Ctx) error {
	result, err := h.flow.GetQueuesToday(h.createRequestContext(c, "/api/v1/queue/today"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.TodayQueueErrorResponse{
			IsError: true,
			Message: "Failed to fetch today's queue",
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// UpdateAnnounce flips the announce flag on a ticket
func (h *QueueHandler) UpdateAnnounce(c fiber.Ctx) error {
	var req dto.UpdateQueueAnnounceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "queue_id and is_queue_announce are required",
		})
	}

	err := h.flow.UpdateQueueAnnounce(h.createRequestContext(c, "/api/v1/queue/announce"), &req)
	if err != nil {
		if businessflow.IsQueueNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: "Queue not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to update queue announce",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.StatusMessageResponse{
		Status:  "success",
		Message: "Queue announce updated successfully",
	})
}

// GetStatus reports the issuance gate
func (h *QueueHandler) GetStatus(c fiber.Ctx) error {
	result, err := h.flow.GetQueueStatus(h.createRequestContext(c, "/api/v1/queue/status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to fetch queue status",
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// SetStatus opens or closes the issuance gate
func (h *QueueHandler) SetStatus(c fiber.Ctx) error {
	var req dto.SetQueueStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "status must be Open or Closed",
		})
	}

	result, err := h.flow.SetQueueStatus(h.createRequestContext(c, "/api/v1/queue/status"), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to update queue status",
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ExportReport downloads today's queue log as an Excel workbook
func (h *QueueHandler) ExportReport(c fiber.Ctx) error {
	buf, filename, err := h.flow.ExportTodayReport(h.createRequestContext(c, "/api/v1/queue/report"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to render report",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *QueueHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
