package services

import (
	"context"
	"time"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeService struct {
	engine *Engine
}

func NewLikeService(engine *Engine) *LikeService {
	return &LikeService{engine: engine}
}

type LikeResult struct {
	ReviewID   string     `json:"review_id"`
	TotalLikes int64      `json:"total_likes"`
	LikedAt    *time.Time `json:"liked_at,omitempty"`
}

// LikeReview adds the actor's like edge and recounts the review's likes.
// Liking twice fails with ErrAlreadyLiked.
func (s *LikeService) LikeReview(ctx context.Context, actorID, reviewID string) (*LikeResult, error) {
	if actorID == "" || reviewID == "" {
		return nil, validationError("user and review ids are required")
	}

	edge := models.ReviewLike{ReviewID: reviewID, UserID: actorID}
	var total int64
	var result WriteResult
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, actorID); err != nil {
			return err
		}
		if err := lockExistingReview(tx, reviewID); err != nil {
			return err
		}

		result = TranslateInsert(RelationLike, tx.Omit(clause.Associations).Create(&edge).Error)
		if !result.Applied() {
			return result.TxErr()
		}

		var err error
		total, err = recomputeReviewLikes(tx, reviewID)
		return err
	})

	fields := map[string]interface{}{"review_id": reviewID, "user_id": actorID}
	if err := txError("like review", err, result); err != nil {
		logOutcome("like review", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("review liked")
	notify(ctx, s.engine.notifier, reviewChange(reviewID))

	return &LikeResult{ReviewID: reviewID, TotalLikes: total, LikedAt: &edge.CreatedAt}, nil
}

// UnlikeReview removes the actor's like edge, failing with ErrNotLiked when
// there is none, and recounts the review's likes.
func (s *LikeService) UnlikeReview(ctx context.Context, actorID, reviewID string) (*LikeResult, error) {
	if actorID == "" || reviewID == "" {
		return nil, validationError("user and review ids are required")
	}

	var total int64
	var result WriteResult
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := lockExistingReview(tx, reviewID); err != nil {
			return err
		}

		result = TranslateDelete(RelationLike, tx.
			Where("review_id = ? AND user_id = ?", reviewID, actorID).
			Delete(&models.ReviewLike{}))
		if !result.Applied() {
			return result.TxErr()
		}

		var err error
		total, err = recomputeReviewLikes(tx, reviewID)
		return err
	})

	fields := map[string]interface{}{"review_id": reviewID, "user_id": actorID}
	if err := txError("unlike review", err, result); err != nil {
		logOutcome("unlike review", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("review unliked")
	notify(ctx, s.engine.notifier, reviewChange(reviewID))

	return &LikeResult{ReviewID: reviewID, TotalLikes: total}, nil
}

func lockExistingReview(tx *gorm.DB, reviewID string) error {
	if _, err := lockReview(tx, reviewID); err != nil {
		if isNotFound(err) {
			return notFoundError("review")
		}
		return err
	}
	return nil
}
