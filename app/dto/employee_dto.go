package dto

import "time"

// CreateEmployeeRequest creates a login account and employee record together
type CreateEmployeeRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=255" example:"jdoe"`
	Password string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	Email    *string `json:"email" validate:"omitempty,email,max=255" example:"jdoe@example.com"`
	UserType string  `json:"user_type" validate:"required,oneof=admin teller staff" example:"teller"`
	Name     string  `json:"name" validate:"required,min=1,max=255" example:"Jane Doe"`
	Role     string  `json:"role" validate:"required,min=1,max=64" example:"Teller"`
}

// UpdateEmployeeRequest carries optional fields; absent fields stay untouched
type UpdateEmployeeRequest struct {
	UserID   string  `json:"user_id" validate:"required" example:"USER-20250314093000_x7kq"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,min=1,max=64"`
	IsActive *bool   `json:"is_active"`
	Username *string `json:"username" validate:"omitempty,min=3,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=100"`
}

// EmployeeView is one row of the employee listing joined with its account
type EmployeeView struct {
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Role       string     `json:"role"`
	IsActive   *bool      `json:"is_active"`
	DateJoined *time.Time `json:"date_joined,omitempty"`
	Username   string     `json:"username"`
	UserType   string     `json:"user_type"`
}

// EmployeeListResponse mirrors the original employee listing envelope
type EmployeeListResponse struct {
	IsError bool            `json:"isError" example:"false"`
	Message string          `json:"message" example:"Fetched employees"`
	Data    []*EmployeeView `json:"data"`
}

// EmployeeMutationResponse is the envelope for create/update operations
type EmployeeMutationResponse struct {
	IsError     bool          `json:"isError" example:"false"`
	Message     string        `json:"message" example:"Employee created successfully"`
	Data        *EmployeeView `json:"data,omitempty"`
	AccessToken string        `json:"access_token,omitempty"`
}
