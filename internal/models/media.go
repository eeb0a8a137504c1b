package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
	MediaTypeGame   MediaType = "game"
	MediaTypeBook   MediaType = "book"
	MediaTypeMusic  MediaType = "music"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeMovie, MediaTypeSeries, MediaTypeGame, MediaTypeBook, MediaTypeMusic:
		return true
	}
	return false
}

// MediaItem carries descriptive fields plus aggregate columns. The aggregate
// columns are written only by the review transactions in package services.
type MediaItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"not null;index"`
	Type        MediaType `json:"type" gorm:"type:varchar(16);not null;index"`
	Year        int       `json:"year,omitempty"`
	Director    string    `json:"director,omitempty"`
	Author      string    `json:"author,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Poster      string    `json:"poster,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	AverageRating float64 `json:"average_rating" gorm:"not null;default:0"`
	TotalReviews  int64   `json:"total_reviews" gorm:"not null;default:0"`
	TotalLikes    int64   `json:"total_likes" gorm:"not null;default:0"`
	TotalDislikes int64   `json:"total_dislikes" gorm:"not null;default:0"`
}

func (m *MediaItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AggregateColumns lists the columns catalog edits must never touch.
var AggregateColumns = []string{"average_rating", "total_reviews", "total_likes", "total_dislikes"}

// Request structs for API
type CreateMediaRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Type        MediaType `json:"type" binding:"required"`
	Year        int       `json:"year" binding:"omitempty,min=1800,max=3000"`
	Director    string    `json:"director" binding:"max=255"`
	Author      string    `json:"author" binding:"max=255"`
	Artist      string    `json:"artist" binding:"max=255"`
	Genre       string    `json:"genre" binding:"max=100"`
	Poster      string    `json:"poster" binding:"omitempty,url"`
	Description string    `json:"description" binding:"max=5000"`
}

type UpdateMediaRequest struct {
	Title       *string `json:"title,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Director    *string `json:"director,omitempty"`
	Author      *string `json:"author,omitempty"`
	Artist      *string `json:"artist,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Poster      *string `json:"poster,omitempty"`
	Description *string `json:"description,omitempty"`
}
