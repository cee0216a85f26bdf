package handlers

import (
	"context"
	"time"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// VideoAdHandlerInterface defines the contract for video ad handlers
type VideoAdHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
}

// VideoAdHandler handles lobby ad HTTP requests
type VideoAdHandler struct {
	flow      businessflow.VideoAdFlow
	validator *validator.Validate
}

// NewVideoAdHandler creates a new video ad handler
func NewVideoAdHandler(flow businessflow.VideoAdFlow) *VideoAdHandler {
	return &VideoAdHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *VideoAdHandler) errorResponse(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(dto.VideoAdMutationResponse{
		IsError: true,
		Message: message,
	})
}

// List returns every ad, newest first
func (h *VideoAdHandler) List(c fiber.Ctx) error {
	result, err := h.flow.ListVideoAds(h.createRequestContext(c, "/api/v1/videoads"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.VideoAdListResponse{
			IsError: true,
			Message: "Failed to fetch video ads",
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// Create uploads a new active ad
func (h *VideoAdHandler) Create(c fiber.Ctx) error {
	var req dto.CreateVideoAdRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		details := validationDetails(err)
		message := "Validation failed"
		if len(details) > 0 {
			message = details[0]
		}
		return h.errorResponse(c, fiber.StatusBadRequest, message)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateVideoAd(h.createRequestContext(c, "/api/v1/videoads"), &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "INVALID_REQUEST" {
			return h.errorResponse(c, fiber.StatusBadRequest, be.Message)
		}
		return h.errorResponse(c, fiber.StatusInternalServerError, "Failed to create video ad")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update edits an existing ad or switches the active one
func (h *VideoAdHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateVideoAdRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		details := validationDetails(err)
		message := "Validation failed"
		if len(details) > 0 {
			message = details[0]
		}
		return h.errorResponse(c, fiber.StatusBadRequest, message)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateVideoAd(h.createRequestContext(c, "/api/v1/videoads"), &req, metadata)
	if err != nil {
		if businessflow.IsVideoAdNotFound(err) {
			return h.errorResponse(c, fiber.StatusNotFound, "Video ad not found")
		}
		return h.errorResponse(c, fiber.StatusInternalServerError, "Failed to update video ad")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *VideoAdHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
