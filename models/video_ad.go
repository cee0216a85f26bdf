package models

import (
	"time"

	"github.com/lib/pq"
)

// VideoAd is one display advertisement in the lobby rotation. At most one ad
// is active at a time: creating a new ad deactivates every other row in the
// same transaction. Playlist holds the item URLs when IsList is set.
// Table: video_ads
type VideoAd struct {
	ID        uint           `gorm:"primaryKey;autoIncrement;column:video_ads_id" json:"video_ads_id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Video     string         `gorm:"type:text;not null" json:"video"`
	IsList    *bool          `gorm:"column:isList;default:false" json:"isList"`
	Playlist  pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"playlist"`
	IsActive  *bool          `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (VideoAd) TableName() string { return "video_ads" }

// VideoAdFilter represents filter criteria for video ad queries
type VideoAdFilter struct {
	ID       *uint   `json:"video_ads_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Title    *string `json:"title,omitempty"`
}
