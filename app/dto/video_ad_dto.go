package dto

import "github.com/drey/queueline/models"

// CreateVideoAdRequest uploads a new lobby ad; creating one deactivates the rest
type CreateVideoAdRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=255" example:"Promo March"`
	Video    string   `json:"video" validate:"required,min=1" example:"https://cdn.example.com/promo.mp4"`
	IsList   *bool    `json:"isList"`
	Playlist []string `json:"playlist" validate:"omitempty,dive,min=1"`
}

// UpdateVideoAdRequest edits an existing ad or switches the active one
type UpdateVideoAdRequest struct {
	ID       uint      `json:"video_ads_id" validate:"required" example:"3"`
	Title    *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Video    *string   `json:"video" validate:"omitempty,min=1"`
	IsList   *bool     `json:"isList"`
	Playlist *[]string `json:"playlist"`
	IsActive *bool     `json:"is_active"`
}

// VideoAdListResponse mirrors the original ad listing envelope
type VideoAdListResponse struct {
	IsError bool              `json:"isError" example:"false"`
	Message string            `json:"message" example:"Fetched video ads"`
	Data    []*models.VideoAd `json:"data"`
}

// VideoAdMutationResponse is the envelope for ad create/update operations
type VideoAdMutationResponse struct {
	IsError bool            `json:"isError" example:"false"`
	Message string          `json:"message" example:"Video ad created successfully"`
	Data    *models.VideoAd `json:"data,omitempty"`
}
