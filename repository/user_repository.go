package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByUsername finds a user by username
func (r *UserRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.User, error) {
	db := r.getDB(ctx)
	var user models.User
	err := db.Where("username = ?", username).Last(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ByUserID finds a user by its application-generated key
func (r *UserRepositoryImpl) ByUserID(ctx context.Context, userID string) (*models.User, error) {
	db := r.getDB(ctx)
	var user models.User
	err := db.Where("user_id = ?", userID).Last(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateFields writes the non-nil fields of update and reports rows touched.
func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, userID string, update models.UserUpdate) (int64, error) {
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
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		fields["password"] = *update.PasswordHash
	}
	if update.UserType != nil {
		fields["user_type"] = *update.UserType
	}

	result := db.Model(&models.User{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		err = fmt.Errorf("failed to update user %s: %w", userID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}
