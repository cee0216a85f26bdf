package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"gorm.io/gorm"
)

// VideoAdRepositoryImpl implements VideoAdRepository interface
type VideoAdRepositoryImpl struct {
	*BaseRepository[models.VideoAd, models.VideoAdFilter]
}

// NewVideoAdRepository creates a new video ad repository
func NewVideoAdRepository(db *gorm.DB) VideoAdRepository {
	return &VideoAdRepositoryImpl{
		BaseRepository: NewBaseRepository[models.VideoAd, models.VideoAdFilter](db),
	}
}

// ActiveAd returns the currently active ad, or nil when none is active.
func (r *VideoAdRepositoryImpl) ActiveAd(ctx context.Context) (*models.VideoAd, error) {
	db := r.getDB(ctx)
	var ad models.VideoAd
	err := db.Where("is_active = ?", true).
		Order("video_ads_id DESC").
		First(&ad).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ad, nil
}

// ListAll returns every ad, newest first
func (r *VideoAdRepositoryImpl) ListAll(ctx context.Context) ([]*models.VideoAd, error) {
	db := r.getDB(ctx)
	var ads []*models.VideoAd
	err := db.Order("video_ads_id DESC").Find(&ads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list video ads: %w", err)
	}
	return ads, nil
}

// DeactivateAll clears the active flag on every ad. Run inside the same
// transaction that activates the replacement so exactly one ad stays active.
func (r *VideoAdRepositoryImpl) DeactivateAll(ctx context.Context) error {
	db := r.getDB(ctx)
	err := db.Model(&models.VideoAd{}).
		Where("is_active = ?", true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate video ads: %w", err)
	}
	return nil
}

// Update persists the ad's mutable columns and reports rows touched.
func (r *VideoAdRepositoryImpl) Update(ctx context.Context, ad *models.VideoAd) (int64, error) {
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

	fields := map[string]any{
		"title":      ad.Title,
		"video":      ad.Video,
		"playlist":   ad.Playlist,
		"updated_at": utils.UTCNow(),
	}
	if ad.IsList != nil {
		fields["isList"] = *ad.IsList
	}
	if ad.IsActive != nil {
		fields["is_active"] = *ad.IsActive
	}

	result := db.Model(&models.VideoAd{}).Where("video_ads_id = ?", ad.ID).Updates(fields)
	if result.Error != nil {
		err = fmt.Errorf("failed to update video ad %d: %w", ad.ID, result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}
