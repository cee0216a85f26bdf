package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// EmployeeRepositoryImpl implements EmployeeRepository interface
type EmployeeRepositoryImpl struct {
	*BaseRepository[models.Employee, models.EmployeeFilter]
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Employee, models.EmployeeFilter](db),
	}
}

// ByUserID finds an employee by the linked user key
func (r *EmployeeRepositoryImpl) ByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	db := r.getDB(ctx)
	var employee models.Employee
	err := db.Where("user_id = ?", userID).Last(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

// ListAll returns every employee record, newest first
func (r *EmployeeRepositoryImpl) ListAll(ctx context.Context) ([]*models.Employee, error) {
	db := r.getDB(ctx)
	var employees []*models.Employee
	err := db.Order("id DESC").Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// UpdateFields writes the non-nil fields of update and reports rows touched.
func (r *EmployeeRepositoryImpl) UpdateFields(ctx context.Context, userID string, update models.EmployeeUpdate) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	fields := map[string]any{"updated_at": utils.UTCNow()}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	result := db.Model(&models.Employee{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		err = fmt.Errorf("failed to update employee %s: %w", userID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}
