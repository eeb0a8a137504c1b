package services

import (
	"context"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	engine        *Engine
	textMaxLength int
}

func NewCommentService(engine *Engine, textMaxLength int) *CommentService {
	return &CommentService{engine: engine, textMaxLength: textMaxLength}
}

type CreateCommentRequest struct {
	ReviewID string `json:"review_id" binding:"required"`
	Text     string `json:"text"`
}

type CommentResult struct {
	Comment       models.Comment `json:"comment"`
	TotalComments int64          `json:"total_comments"`
}

func (s *CommentService) AddComment(ctx context.Context, authorID string, req CreateCommentRequest) (*CommentResult, error) {
	text := utils.SanitizeString(req.Text)
	switch {
	case authorID == "" || req.ReviewID == "":
		return nil, validationError("author and review ids are required")
	case text == "":
		return nil, validationError("comment text is required")
	case utils.TextLength(text) > s.textMaxLength:
		return nil, validationError("comment text exceeds %d characters", s.textMaxLength)
	}

	comment := models.Comment{ReviewID: req.ReviewID, UserID: authorID, Text: text}
	var total int64
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, authorID); err != nil {
			return err
		}
		if err := lockExistingReview(tx, req.ReviewID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&comment).Error; err != nil {
			return err
		}

		var err error
		total, err = recomputeReviewComments(tx, req.ReviewID)
		return err
	})

	fields := map[string]interface{}{"review_id": req.ReviewID, "user_id": authorID}
	if err := txError("add comment", err, WriteResult{}); err != nil {
		logOutcome("add comment", fields, err)
		return nil, err
	}

	fields["comment_id"] = comment.ID
	logger.WithFields(fields).Info("comment added")
	notify(ctx, s.engine.notifier, reviewChange(req.ReviewID))

	return &CommentResult{Comment: comment, TotalComments: total}, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, callerID string) (*CommentResult, error) {
	var comment models.Comment
	var total int64
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("comment")
			}
			return err
		}
		if comment.UserID != callerID {
			return forbiddenError("comment belongs to another user")
		}
		if err := lockExistingReview(tx, comment.ReviewID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
			return err
		}

		var err error
		total, err = recomputeReviewComments(tx, comment.ReviewID)
		return err
	})

	fields := map[string]interface{}{"comment_id": commentID, "user_id": callerID}
	if err := txError("delete comment", err, WriteResult{}); err != nil {
		logOutcome("delete comment", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("comment deleted")
	notify(ctx, s.engine.notifier, reviewChange(comment.ReviewID))

	return &CommentResult{Comment: comment, TotalComments: total}, nil
}
