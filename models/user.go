package models

import "time"

// User represents a login account. UserID is the application-generated
// string key (USER-...) that links the account to its employee record.
// Table: users
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string    `gorm:"size:64;not null;uniqueIndex:uk_users_user_id" json:"user_id"`
	Username     string    `gorm:"size:255;not null;uniqueIndex:uk_users_username" json:"username"`
	Email        *string   `gorm:"size:255;uniqueIndex:uk_users_email" json:"email,omitempty"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	UserType     string    `gorm:"size:32;not null" json:"user_type"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID       *uint   `json:"id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	UserType *string `json:"user_type,omitempty"`
}

// UserUpdate carries the fields an employee update may touch. Only non-nil
// fields are written, so a partial update never clobbers columns the caller
// did not supply.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	UserType     *string
}
