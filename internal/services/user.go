package services

import (
	"context"
	"sort"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	NameMinLength = 2
	NameMaxLength = 100
)

type UserService struct {
	engine *Engine
}

func NewUserService(engine *Engine) *UserService {
	return &UserService{engine: engine}
}

type UpdateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AccountDeletion reports what removing an account touched. Aggregates holds
// the recomputed snapshot of every media item that lost a review.
type AccountDeletion struct {
	UserID         string           `json:"user_id"`
	ReviewsDeleted int              `json:"reviews_deleted"`
	Aggregates     []MediaAggregate `json:"aggregates"`
}

// ensureUser creates the projection row for an identity provider account on
// its first write. An existing row is left untouched.
func ensureUser(tx *gorm.DB, userID string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.User{ID: userID}).Error
}

// UpdateName sets the caller's display name, creating the projection row if
// the caller has not written anything yet.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = utils.SanitizeString(name)
	switch {
	case userID == "":
		return nil, validationError("user id is required")
	case utils.TextLength(name) < NameMinLength:
		return nil, validationError("name must be at least %d characters long", NameMinLength)
	case utils.TextLength(name) > NameMaxLength:
		return nil, validationError("name exceeds %d characters", NameMaxLength)
	}

	var user models.User
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).Create(&models.User{ID: userID, Name: name}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", userID).First(&user).Error
	})

	fields := map[string]interface{}{"user_id": userID}
	if err := txError("update name", err, WriteResult{}); err != nil {
		logOutcome("update name", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("user name updated")
	notify(ctx, s.engine.notifier, profileChange(userID))
	return &user, nil
}

// DeleteUser removes the caller's account together with their reviews,
// likes, comments and follow edges. Every media aggregate and review counter
// that loses a row is recomputed in the same transaction.
func (s *UserService) DeleteUser(ctx context.Context, userID string) (*AccountDeletion, error) {
	if userID == "" {
		return nil, validationError("user id is required")
	}

	out := &AccountDeletion{UserID: userID, Aggregates: []MediaAggregate{}}
	var mediaIDs, touchedIDs []string
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).First(&user).Error
		if err != nil {
			if isNotFound(err) {
				return notFoundError("user")
			}
			return err
		}

		var own []models.Review
		if err := tx.Select("id", "media_id").Where("user_id = ?", userID).Find(&own).Error; err != nil {
			return err
		}
		ownIDs := make([]string, 0, len(own))
		for _, r := range own {
			ownIDs = append(ownIDs, r.ID)
			mediaIDs = append(mediaIDs, r.MediaID)
		}
		mediaIDs = sortedUnique(mediaIDs)

		var liked, commented []string
		if err := tx.Model(&models.ReviewLike{}).Where("user_id = ?", userID).Pluck("review_id", &liked).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("user_id = ?", userID).Pluck("review_id", &commented).Error; err != nil {
			return err
		}
		touchedIDs = without(sortedUnique(append(liked, commented...)), ownIDs)

		// Reviews before media, each set in id order.
		if err := lockRows(tx, &[]models.Review{}, sortedUnique(append(ownIDs, touchedIDs...))); err != nil {
			return err
		}
		if err := lockRows(tx, &[]models.MediaItem{}, mediaIDs); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if len(ownIDs) > 0 {
			if err := tx.Where("review_id IN ?", ownIDs).Delete(&models.ReviewLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("review_id IN ?", ownIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
			return err
		}

		for _, id := range touchedIDs {
			if _, err := recomputeReviewLikes(tx, id); err != nil {
				return err
			}
			if _, err := recomputeReviewComments(tx, id); err != nil {
				return err
			}
		}
		for _, id := range mediaIDs {
			agg, err := recomputeMediaAggregate(tx, id)
			if err != nil {
				return err
			}
			out.Aggregates = append(out.Aggregates, agg)
		}
		out.ReviewsDeleted = len(own)
		return nil
	})

	fields := map[string]interface{}{"user_id": userID}
	if err := txError("delete user", err, WriteResult{}); err != nil {
		logOutcome("delete user", fields, err)
		return nil, err
	}

	fields["reviews_deleted"] = out.ReviewsDeleted
	fields["media_recomputed"] = len(mediaIDs)
	logger.WithFields(fields).Info("user deleted")

	paths := make([]string, 0, len(mediaIDs)+len(touchedIDs))
	for _, id := range mediaIDs {
		paths = append(paths, mediaPath(id))
	}
	for _, id := range touchedIDs {
		paths = append(paths, reviewPath(id))
	}
	notify(ctx, s.engine.notifier, profileChange(userID, paths...))

	return out, nil
}

// lockRows locks the rows of dest's table with the given ids in id order.
func lockRows(tx *gorm.DB, dest interface{}, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(dest).Error
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func without(ids, drop []string) []string {
	skip := make(map[string]bool, len(drop))
	for _, id := range drop {
		skip[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}
