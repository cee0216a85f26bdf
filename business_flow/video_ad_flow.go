package businessflow

import (
	"context"
	"strings"

	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/app/services"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	"github.com/drey/queueline/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// VideoAdFlow defines operations for the lobby ad rotation
type VideoAdFlow interface {
	ListVideoAds(ctx context.Context) (*dto.VideoAdListResponse, error)
	CreateVideoAd(ctx context.Context, req *dto.CreateVideoAdRequest, metadata *ClientMetadata) (*dto.VideoAdMutationResponse, error)
	UpdateVideoAd(ctx context.Context, req *dto.UpdateVideoAdRequest, metadata *ClientMetadata) (*dto.VideoAdMutationResponse, error)
}

// VideoAdFlowImpl implements VideoAdFlow
type VideoAdFlowImpl struct {
	db        *gorm.DB
	adRepo    repository.VideoAdRepository
	publisher services.EventPublisher
}

func NewVideoAdFlow(db *gorm.DB, adRepo repository.VideoAdRepository, publisher services.EventPublisher) VideoAdFlow {
	return &VideoAdFlowImpl{db: db, adRepo: adRepo, publisher: publisher}
}

// ListVideoAds returns every ad, newest first
func (f *VideoAdFlowImpl) ListVideoAds(ctx context.Context) (*dto.VideoAdListResponse, error) {
	ads, err := f.adRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []*models.VideoAd{}
	}
	return &dto.VideoAdListResponse{
		IsError: false,
		Message: "Fetched video ads",
		Data:    ads,
	}, nil
}

// CreateVideoAd inserts a new active ad, retiring every other ad in the same
// transaction so exactly one stays active.
func (f *VideoAdFlowImpl) CreateVideoAd(ctx context.Context, req *dto.CreateVideoAdRequest, metadata *ClientMetadata) (*dto.VideoAdMutationResponse, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Video) == "" {
		return nil, NewBusinessError("INVALID_REQUEST", "title and video are required", nil)
	}

	ad := &models.VideoAd{
		Title:    strings.TrimSpace(req.Title),
		Video:    strings.TrimSpace(req.Video),
		IsList:   req.IsList,
		Playlist: pq.StringArray(req.Playlist),
		IsActive: utils.ToPtr(true),
	}
	if ad.IsList == nil {
		ad.IsList = utils.ToPtr(false)
	}
	if ad.Playlist == nil {
		ad.Playlist = pq.StringArray{}
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.adRepo.DeactivateAll(txCtx); err != nil {
			return err
		}
		return f.adRepo.Save(txCtx, ad)
	})
	if err != nil {
		return nil, err
	}

	f.publisher.Publish(services.EventVideoAdsCreated, ad)

	return &dto.VideoAdMutationResponse{
		IsError: false,
		Message: "Video ad created successfully",
		Data:    ad,
	}, nil
}

// UpdateVideoAd edits an existing ad. Activating an ad retires the others in
// the same transaction.
func (f *VideoAdFlowImpl) UpdateVideoAd(ctx context.Context, req *dto.UpdateVideoAdRequest, metadata *ClientMetadata) (*dto.VideoAdMutationResponse, error) {
	ad, err := f.adRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrVideoAdNotFound
	}

	if req.Title != nil {
		ad.Title = strings.TrimSpace(*req.Title)
	}
	if req.Video != nil {
		ad.Video = strings.TrimSpace(*req.Video)
	}
	if req.IsList != nil {
		ad.IsList = req.IsList
	}
	if req.Playlist != nil {
		ad.Playlist = pq.StringArray(*req.Playlist)
	}
	if req.IsActive != nil {
		ad.IsActive = req.IsActive
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if req.IsActive != nil && *req.IsActive {
			if err := f.adRepo.DeactivateAll(txCtx); err != nil {
				return err
			}
		}
		affected, err := f.adRepo.Update(txCtx, ad)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrVideoAdNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.publisher.Publish(services.EventVideoAdsUpdated, ad)

	return &dto.VideoAdMutationResponse{
		IsError: false,
		Message: "Video ad updated successfully",
		Data:    ad,
	}, nil
}
