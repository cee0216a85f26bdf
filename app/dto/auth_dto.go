package dto

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255" example:"jdoe"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Login successful"`
	Data    struct {
		AccessToken string   `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		TokenType   string   `json:"token_type" example:"Bearer"`
		ExpiresIn   int      `json:"expires_in" example:"86400"`
		User        UserInfo `json:"user"`
	} `json:"data"`
}

// UserInfo represents user information returned in auth responses
type UserInfo struct {
	UserID   string  `json:"user_id" example:"USER-20250314093000_x7kq"`
	Username string  `json:"username" example:"jdoe"`
	Email    *string `json:"email,omitempty" example:"jdoe@example.com"`
	UserType string  `json:"user_type" example:"teller"`
	Name     string  `json:"name,omitempty" example:"Jane Doe"`
	Role     string  `json:"role,omitempty" example:"Teller"`
}

// SignupRequest represents the request payload for account creation
type SignupRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=255" example:"jdoe"`
	Password string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	Email    *string `json:"email" validate:"omitempty,email,max=255" example:"jdoe@example.com"`
	UserType string  `json:"user_type" validate:"required,oneof=admin teller staff" example:"teller"`
	Name     string  `json:"name" validate:"required,min=1,max=255" example:"Jane Doe"`
	Role     string  `json:"role" validate:"required,min=1,max=64" example:"Teller"`
}

// SignupResponse represents the successful signup response
type SignupResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Account created successfully"`
	Data    struct {
		AccessToken string   `json:"access_token"`
		TokenType   string   `json:"token_type" example:"Bearer"`
		ExpiresIn   int      `json:"expires_in" example:"86400"`
		User        UserInfo `json:"user"`
	} `json:"data"`
}

// Common error codes for auth operations
const (
	ErrorUserNotFound      = "USER_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorUsernameTaken     = "USERNAME_TAKEN"
)
