package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review carries either a star Rating or a Liked flag, never both.
type Review struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MediaID       string    `json:"media_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_review_media_user"`
	UserID        string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_review_media_user;index"`
	Rating        *int      `json:"rating,omitempty" gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	Liked         *bool     `json:"liked,omitempty"`
	Text          string    `json:"text" gorm:"type:text"`
	TotalLikes    int64     `json:"total_likes" gorm:"not null;default:0"`
	TotalComments int64     `json:"total_comments" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	User  User      `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Media MediaItem `json:"-" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReviewLike is a like edge; (ReviewID, UserID) is unique.
type ReviewLike struct {
	ReviewID  string    `json:"review_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`

	Review Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

func (ReviewLike) TableName() string {
	return "review_likes"
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID  string    `json:"review_id" gorm:"type:varchar(36);not null;index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Review Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
