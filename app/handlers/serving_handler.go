package handlers

import (
	"context"
	"time"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ServingHandlerInterface defines the contract for serving handlers
type ServingHandlerInterface interface {
	Start(c fiber.Ctx) error
	Done(c fiber.Ctx) error
	UpdateAnnounce(c fiber.Ctx) error
}

// ServingHandler handles teller serving HTTP requests
type ServingHandler struct {
	flow      businessflow.ServingFlow
	validator *validator.Validate
}

// NewServingHandler creates a new serving handler
func NewServingHandler(flow businessflow.ServingFlow) *ServingHandler {
	return &ServingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Start calls a ticket to a teller window
func (h *ServingHandler) Start(c fiber.Ctx) error {
	var req dto.StartServingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "queue_id and teller_number are required",
		})
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.StartServing(h.createRequestContext(c, "/api/v1/queue/serve"), &req, metadata)
	if err != nil {
		if businessflow.IsQueueNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: "Queue not found",
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
			Message: "Failed to start serving",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Done closes the session binding a teller to a ticket
func (h *ServingHandler) Done(c fiber.Ctx) error {
	var req dto.MarkServingDoneRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "queue_id and teller_number are required",
		})
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.MarkServingDone(h.createRequestContext(c, "/api/v1/queue/done"), &req, metadata)
	if err != nil {
		if businessflow.IsNotServing(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: businessflow.NotServingMessage,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to mark serving done",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// UpdateAnnounce flips the announce flag on a serving session
func (h *ServingHandler) UpdateAnnounce(c fiber.Ctx) error {
	var req dto.UpdateServingAnnounceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "serving_id and isAnnounce are required",
		})
	}

	err := h.flow.UpdateServingAnnounce(h.createRequestContext(c, "/api/v1/serving/announce"), &req)
	if err != nil {
		if businessflow.IsServingNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.StatusErrorResponse{
				Status:  "error",
				Message: "Serving session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{
			Status:  "error",
			Message: "Failed to update serving announce",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.StatusMessageResponse{
		Status:  "success",
		Message: "Serving announce updated successfully",
	})
}

func (h *ServingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
