package businessflow

import (
	"context"
	"strings"

	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/app/services"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	"github.com/drey/queueline/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow defines operations for login and account creation
type AuthFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// AuthFlowImpl implements AuthFlow
type AuthFlowImpl struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	tokenService services.TokenService
}

func NewAuthFlow(db *gorm.DB, userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository, tokenService services.TokenService) AuthFlow {
	return &AuthFlowImpl{db: db, userRepo: userRepo, employeeRepo: employeeRepo, tokenService: tokenService}
}

// Login verifies credentials and issues an access token carrying the account
// and employee identity.
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	user, err := f.userRepo.ByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	employee, err := f.employeeRepo.ByUserID(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	identity := services.TokenIdentity{
		UserID:   user.UserID,
		Username: user.Username,
		UserType: user.UserType,
	}
	if employee != nil {
		identity.Name = employee.Name
		identity.Role = employee.Role
	}

	token, err := f.tokenService.GenerateToken(identity)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{Success: true, Message: "Login successful"}
	resp.Data.AccessToken = token
	resp.Data.TokenType = "Bearer"
	resp.Data.ExpiresIn = utils.AccessTokenTTLSeconds
	resp.Data.User = dto.UserInfo{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		UserType: user.UserType,
		Name:     identity.Name,
		Role:     identity.Role,
	}
	return resp, nil
}

// Signup creates a login account and its employee record in one transaction.
func (f *AuthFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := utils.GenerateUserID()
	user := &models.User{
		UserID:       userID,
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: string(hash),
		UserType:     req.UserType,
	}
	employee := &models.Employee{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Role:       req.Role,
		IsActive:   utils.ToPtr(true),
		DateJoined: utils.UTCNowPtr(),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.userRepo.Save(txCtx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrUsernameTaken
			}
			return err
		}
		return f.employeeRepo.Save(txCtx, employee)
	})
	if err != nil {
		return nil, err
	}

	token, err := f.tokenService.GenerateToken(services.TokenIdentity{
		UserID:   user.UserID,
		Username: user.Username,
		UserType: user.UserType,
		Name:     employee.Name,
		Role:     employee.Role,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SignupResponse{Success: true, Message: "Account created successfully"}
	resp.Data.AccessToken = token
	resp.Data.TokenType = "Bearer"
	resp.Data.ExpiresIn = utils.AccessTokenTTLSeconds
	resp.Data.User = dto.UserInfo{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		UserType: user.UserType,
		Name:     employee.Name,
		Role:     employee.Role,
	}
	return resp, nil
}
