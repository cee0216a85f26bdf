package models

import "time"

// Employee is the HR-side record paired with a User login via UserID.
// Table: employees
type Employee struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string     `gorm:"size:64;not null;uniqueIndex:uk_employees_user_id" json:"user_id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Email      *string    `gorm:"size:255" json:"email,omitempty"`
	Role       string     `gorm:"size:64;not null" json:"role"`
	IsActive   *bool      `gorm:"default:true" json:"is_active"`
	DateJoined *time.Time `gorm:"type:date" json:"date_joined,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

// EmployeeFilter represents filter criteria for employee queries
type EmployeeFilter struct {
	ID       *uint   `json:"id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// EmployeeUpdate carries the fields an employee update may touch; only
// non-nil fields are written.
type EmployeeUpdate struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}
