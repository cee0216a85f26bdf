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

// EmployeeFlow defines operations for managing branch staff
type EmployeeFlow interface {
	CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeMutationResponse, error)
	UpdateEmployee(ctx context.Context, req *dto.UpdateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeMutationResponse, error)
	ListEmployees(ctx context.Context) (*dto.EmployeeListResponse, error)
}

// EmployeeFlowImpl implements EmployeeFlow
type EmployeeFlowImpl struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	tokenService services.TokenService
	publisher    services.EventPublisher
}

func NewEmployeeFlow(db *gorm.DB, userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository, tokenService services.TokenService, publisher services.EventPublisher) EmployeeFlow {
	return &EmployeeFlowImpl{db: db, userRepo: userRepo, employeeRepo: employeeRepo, tokenService: tokenService, publisher: publisher}
}

// CreateEmployee provisions the login account and the employee record
// together and hands back a token the new staff member can use immediately.
func (f *EmployeeFlowImpl) CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeMutationResponse, error) {
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

	view := ToEmployeeView(employee, user)
	f.publisher.Publish(services.EventEmployeeCreated, view)

	return &dto.EmployeeMutationResponse{
		IsError:     false,
		Message:     "Employee created successfully",
		Data:        view,
		AccessToken: token,
	}, nil
}

// UpdateEmployee writes only the supplied fields across the employee record
// and its account. Unknown user_id surfaces as not found.
func (f *EmployeeFlowImpl) UpdateEmployee(ctx context.Context, req *dto.UpdateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeMutationResponse, error) {
	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		passwordHash = &h
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		affected, err := f.employeeRepo.UpdateFields(txCtx, req.UserID, models.EmployeeUpdate{
			Name:     req.Name,
			Email:    req.Email,
			Role:     req.Role,
			IsActive: req.IsActive,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrEmployeeNotFound
		}

		if req.Username != nil || req.Email != nil || passwordHash != nil {
			_, err := f.userRepo.UpdateFields(txCtx, req.UserID, models.UserUpdate{
				Username:     req.Username,
				Email:        req.Email,
				PasswordHash: passwordHash,
			})
			if err != nil {
				if repository.IsUniqueViolation(err) {
					return ErrUsernameTaken
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	employee, err := f.employeeRepo.ByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	user, err := f.userRepo.ByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	view := ToEmployeeView(employee, user)
	f.publisher.Publish(services.EventEmployeeUpdated, view)

	return &dto.EmployeeMutationResponse{
		IsError: false,
		Message: "Employee updated successfully",
		Data:    view,
	}, nil
}

// ListEmployees returns every staff record joined with its login account.
func (f *EmployeeFlowImpl) ListEmployees(ctx context.Context) (*dto.EmployeeListResponse, error) {
	employees, err := f.employeeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.EmployeeView, 0, len(employees))
	for _, employee := range employees {
		user, err := f.userRepo.ByUserID(ctx, employee.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, ToEmployeeView(employee, user))
	}

	f.publisher.Publish(services.EventEmployeeList, views)

	return &dto.EmployeeListResponse{
		IsError: false,
		Message: "Fetched employees",
		Data:    views,
	}, nil
}
