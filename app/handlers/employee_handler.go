package handlers

import (
	"context"
	"time"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// EmployeeHandlerInterface defines the contract for employee handlers
type EmployeeHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// EmployeeHandler handles employee management HTTP requests
type EmployeeHandler struct {
	flow      businessflow.EmployeeFlow
	validator *validator.Validate
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(flow businessflow.EmployeeFlow) *EmployeeHandler {
	return &EmployeeHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *EmployeeHandler) errorResponse(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(dto.EmployeeMutationResponse{
		IsError: true,
		Message: message,
	})
}

// Create provisions a staff account and record
func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
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
	result, err := h.flow.CreateEmployee(h.createRequestContext(c, "/api/v1/employees"), &req, metadata)
	if err != nil {
		if businessflow.IsUsernameTaken(err) {
			return h.errorResponse(c, fiber.StatusConflict, "Username or Email already in use")
		}
		return h.errorResponse(c, fiber.StatusInternalServerError, "Failed to create employee")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update edits the supplied fields of an employee and its account
func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateEmployeeRequest
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
	result, err := h.flow.UpdateEmployee(h.createRequestContext(c, "/api/v1/employees"), &req, metadata)
	if err != nil {
		if businessflow.IsEmployeeNotFound(err) {
			return h.errorResponse(c, fiber.StatusNotFound, "Employee not found")
		}
		if businessflow.IsUsernameTaken(err) {
			return h.errorResponse(c, fiber.StatusConflict, "Username or Email already in use")
		}
		return h.errorResponse(c, fiber.StatusInternalServerError, "Failed to update employee")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// List returns every staff record with its account
func (h *EmployeeHandler) List(c fiber.Ctx) error {
	result, err := h.flow.ListEmployees(h.createRequestContext(c, "/api/v1/employees"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.EmployeeListResponse{
			IsError: true,
			Message: "Failed to fetch employees",
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *EmployeeHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
