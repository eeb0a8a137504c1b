package services

import (
	"github.com/mediashelf/mediashelf-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewTally is the raw count data for one media item's reviews.
type ReviewTally struct {
	TotalReviews    int64
	RatedReviews    int64
	RatingSum       int64
	LikedReviews    int64
	DislikedReviews int64
}

// MediaAggregate is the snapshot persisted on a MediaItem.
type MediaAggregate struct {
	MediaID       string  `json:"media_id"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
	TotalLikes    int64   `json:"total_likes"`
	TotalDislikes int64   `json:"total_dislikes"`
}

// TallyReviews counts a set of reviews in memory.
func TallyReviews(reviews []models.Review) ReviewTally {
	var t ReviewTally
	for _, r := range reviews {
		t.TotalReviews++
		if r.Rating != nil {
			t.RatedReviews++
			t.RatingSum += int64(*r.Rating)
		}
		if r.Liked != nil {
			if *r.Liked {
				t.LikedReviews++
			} else {
				t.DislikedReviews++
			}
		}
	}
	return t
}

// Aggregate derives the persisted values. The average covers rated reviews
// only and is 0 when there are none.
func (t ReviewTally) Aggregate(mediaID string) MediaAggregate {
	agg := MediaAggregate{
		MediaID:       mediaID,
		TotalReviews:  t.TotalReviews,
		TotalLikes:    t.LikedReviews,
		TotalDislikes: t.DislikedReviews,
	}
	if t.RatedReviews > 0 {
		agg.AverageRating = float64(t.RatingSum) / float64(t.RatedReviews)
	}
	return agg
}

func aggregateOf(m *models.MediaItem) MediaAggregate {
	return MediaAggregate{
		MediaID:       m.ID,
		AverageRating: m.AverageRating,
		TotalReviews:  m.TotalReviews,
		TotalLikes:    m.TotalLikes,
		TotalDislikes: m.TotalDislikes,
	}
}

// lockMedia re-reads a media row FOR UPDATE so that writers on the same item
// recompute one after another.
func lockMedia(tx *gorm.DB, mediaID string) (*models.MediaItem, error) {
	var media models.MediaItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", mediaID).
		First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func lockReview(tx *gorm.DB, reviewID string) (*models.Review, error) {
	var review models.Review
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", reviewID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// recomputeMediaAggregate tallies every review of the item inside tx and
// overwrites the aggregate columns.
func recomputeMediaAggregate(tx *gorm.DB, mediaID string) (MediaAggregate, error) {
	var tally ReviewTally
	err := tx.Model(&models.Review{}).
		Select(`COUNT(*) AS total_reviews,
			COUNT(rating) AS rated_reviews,
			CAST(COALESCE(SUM(rating), 0) AS BIGINT) AS rating_sum,
			CAST(COALESCE(SUM(CASE WHEN liked = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS liked_reviews,
			CAST(COALESCE(SUM(CASE WHEN liked = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS disliked_reviews`, true, false).
		Where("media_id = ?", mediaID).
		Scan(&tally).Error
	if err != nil {
		return MediaAggregate{}, err
	}

	agg := tally.Aggregate(mediaID)
	err = tx.Model(&models.MediaItem{}).
		Where("id = ?", mediaID).
		Updates(map[string]interface{}{
			"average_rating": agg.AverageRating,
			"total_reviews":  agg.TotalReviews,
			"total_likes":    agg.TotalLikes,
			"total_dislikes": agg.TotalDislikes,
		}).Error
	if err != nil {
		return MediaAggregate{}, err
	}
	return agg, nil
}

// recomputeReviewLikes counts like edges for a review and stores the total.
func recomputeReviewLikes(tx *gorm.DB, reviewID string) (int64, error) {
	var count int64
	if err := tx.Model(&models.ReviewLike{}).Where("review_id = ?", reviewID).Count(&count).Error; err != nil {
		return 0, err
	}
	err := tx.Model(&models.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("total_likes", count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func recomputeReviewComments(tx *gorm.DB, reviewID string) (int64, error) {
	var count int64
	if err := tx.Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&count).Error; err != nil {
		return 0, err
	}
	err := tx.Model(&models.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("total_comments", count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
