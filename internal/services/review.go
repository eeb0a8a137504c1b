package services

import (
	"context"
	"math"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewService struct {
	engine        *Engine
	textMaxLength int
}

func NewReviewService(engine *Engine, textMaxLength int) *ReviewService {
	return &ReviewService{engine: engine, textMaxLength: textMaxLength}
}

// ReviewInput is a review payload: exactly one of Rating or Liked.
type ReviewInput struct {
	Rating *int   `json:"rating"`
	Liked  *bool  `json:"liked"`
	Text   string `json:"text"`
}

type CreateReviewRequest struct {
	MediaID string `json:"media_id" binding:"required"`
	ReviewInput
}

type ReviewResult struct {
	Review    models.Review  `json:"review"`
	Aggregate MediaAggregate `json:"aggregate"`
}

type ReviewPage struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Pages   int             `json:"pages"`
}

func (s *ReviewService) validate(in *ReviewInput) error {
	hasRating := in.Rating != nil
	hasLike := in.Liked != nil

	switch {
	case hasRating && hasLike:
		return validationError("a review carries either a rating or a like, not both")
	case !hasRating && !hasLike:
		return validationError("either rating or liked must be provided")
	case hasRating && !utils.IsValidRating(*in.Rating):
		return validationError("rating must be between 1 and 5")
	}

	in.Text = utils.SanitizeString(in.Text)
	if utils.TextLength(in.Text) > s.textMaxLength {
		return validationError("review text exceeds %d characters", s.textMaxLength)
	}
	return nil
}

// CreateReview inserts a review and recomputes the media aggregate from all
// of the item's reviews in the same transaction.
func (s *ReviewService) CreateReview(ctx context.Context, authorID string, req CreateReviewRequest) (*ReviewResult, error) {
	if authorID == "" || req.MediaID == "" {
		return nil, validationError("author and media ids are required")
	}
	if err := s.validate(&req.ReviewInput); err != nil {
		return nil, err
	}

	review := models.Review{
		MediaID: req.MediaID,
		UserID:  authorID,
		Rating:  req.Rating,
		Liked:   req.Liked,
		Text:    req.Text,
	}
	var agg MediaAggregate
	var result WriteResult
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, authorID); err != nil {
			return err
		}
		if _, err := lockMedia(tx, req.MediaID); err != nil {
			if isNotFound(err) {
				return notFoundError("media item")
			}
			return err
		}

		result = TranslateInsert(RelationReview, tx.Omit(clause.Associations).Create(&review).Error)
		if !result.Applied() {
			return result.TxErr()
		}

		var err error
		agg, err = recomputeMediaAggregate(tx, req.MediaID)
		return err
	})

	fields := map[string]interface{}{"media_id": req.MediaID, "user_id": authorID}
	if err := txError("create review", err, result); err != nil {
		logOutcome("create review", fields, err)
		return nil, err
	}

	fields["review_id"] = review.ID
	logger.WithFields(fields).Info("review created")
	notify(ctx, s.engine.notifier, mediaChange(req.MediaID, reviewPath(review.ID), profilePath(authorID)))

	return &ReviewResult{Review: review, Aggregate: agg}, nil
}

// UpdateReview replaces the payload of the caller's own review and
// recomputes the owning media aggregate.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, callerID string, in ReviewInput) (*ReviewResult, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	var review *models.Review
	var agg MediaAggregate
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		var err error
		review, err = s.lockOwnedReview(tx, reviewID, callerID)
		if err != nil {
			return err
		}
		if _, err := lockMedia(tx, review.MediaID); err != nil {
			return err
		}

		err = tx.Model(review).Updates(map[string]interface{}{
			"rating": in.Rating,
			"liked":  in.Liked,
			"text":   in.Text,
		}).Error
		if err != nil {
			return err
		}
		review.Rating, review.Liked, review.Text = in.Rating, in.Liked, in.Text

		agg, err = recomputeMediaAggregate(tx, review.MediaID)
		return err
	})

	fields := map[string]interface{}{"review_id": reviewID, "user_id": callerID}
	if err := txError("update review", err, WriteResult{}); err != nil {
		logOutcome("update review", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("review updated")
	notify(ctx, s.engine.notifier, mediaChange(review.MediaID, reviewPath(reviewID), profilePath(callerID)))

	return &ReviewResult{Review: *review, Aggregate: agg}, nil
}

// DeleteReview removes the caller's review with its likes and comments and
// recomputes the media aggregate, which drops to zero with the last review.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, callerID string) (*MediaAggregate, error) {
	var review *models.Review
	var agg MediaAggregate
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		var err error
		review, err = s.lockOwnedReview(tx, reviewID, callerID)
		if err != nil {
			return err
		}
		if _, err := lockMedia(tx, review.MediaID); err != nil {
			return err
		}

		if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Review{}, "id = ?", reviewID).Error; err != nil {
			return err
		}

		agg, err = recomputeMediaAggregate(tx, review.MediaID)
		return err
	})

	fields := map[string]interface{}{"review_id": reviewID, "user_id": callerID}
	if err := txError("delete review", err, WriteResult{}); err != nil {
		logOutcome("delete review", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("review deleted")
	notify(ctx, s.engine.notifier, mediaChange(review.MediaID, reviewPath(reviewID), profilePath(callerID)))

	return &agg, nil
}

func (s *ReviewService) lockOwnedReview(tx *gorm.DB, reviewID, callerID string) (*models.Review, error) {
	review, err := lockReview(tx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("review")
		}
		return nil, err
	}
	if review.UserID != callerID {
		return nil, forbiddenError("review belongs to another user")
	}
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	var review models.Review
	err := s.engine.db.WithContext(ctx).Preload("User").Where("id = ?", reviewID).First(&review).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("review")
		}
		return nil, internalError("get review", err)
	}
	return &review, nil
}

func (s *ReviewService) ListMediaReviews(ctx context.Context, mediaID string, page, limit int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	db := s.engine.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.MediaItem{}).Where("id = ?", mediaID).Count(&count).Error; err != nil {
		return nil, internalError("find media", err)
	}
	if count == 0 {
		return nil, notFoundError("media item")
	}

	var total int64
	if err := db.Model(&models.Review{}).Where("media_id = ?", mediaID).Count(&total).Error; err != nil {
		return nil, internalError("count reviews", err)
	}

	reviews := []models.Review{}
	err := db.Preload("User").
		Where("media_id = ?", mediaID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, internalError("list reviews", err)
	}

	return &ReviewPage{
		Reviews: reviews,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
