package services

import (
	"context"
	"time"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowService struct {
	engine *Engine
}

func NewFollowService(engine *Engine) *FollowService {
	return &FollowService{engine: engine}
}

type FollowResult struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserStats struct {
	UserID         string `json:"user_id"`
	TotalFollowers int64  `json:"total_followers"`
	TotalFollowing int64  `json:"total_following"`
}

type FollowLists struct {
	Followers []models.UserSummary `json:"followers"`
	Following []models.UserSummary `json:"following"`
}

func checkPair(actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return validationError("user ids are required")
	}
	if actorID == targetID {
		return ErrSelfReference
	}
	return nil
}

// Follow inserts the edge actorID -> targetID. A second call for the same
// pair fails with ErrAlreadyFollowing.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if err := checkPair(actorID, targetID); err != nil {
		return nil, err
	}

	var edge models.Follow
	var result WriteResult
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, actorID); err != nil {
			return err
		}
		if err := userExists(tx, targetID); err != nil {
			return err
		}

		edge = models.Follow{FollowerID: actorID, FollowingID: targetID}
		result = TranslateInsert(RelationFollow, tx.Omit(clause.Associations).Create(&edge).Error)
		return result.TxErr()
	})

	fields := map[string]interface{}{"follower_id": actorID, "following_id": targetID}
	if err := txError("follow", err, result); err != nil {
		logOutcome("follow", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("user followed")
	notify(ctx, s.engine.notifier, profileChange(targetID, profilePath(actorID)))

	return &FollowResult{
		FollowerID:  edge.FollowerID,
		FollowingID: edge.FollowingID,
		CreatedAt:   edge.CreatedAt,
	}, nil
}

// Unfollow deletes the edge actorID -> targetID, failing with
// ErrNotFollowing when there is none.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if err := checkPair(actorID, targetID); err != nil {
		return err
	}

	var result WriteResult
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := userExists(tx, targetID); err != nil {
			return err
		}

		result = TranslateDelete(RelationFollow, tx.
			Where("follower_id = ? AND following_id = ?", actorID, targetID).
			Delete(&models.Follow{}))
		return result.TxErr()
	})

	fields := map[string]interface{}{"follower_id": actorID, "following_id": targetID}
	if err := txError("unfollow", err, result); err != nil {
		logOutcome("unfollow", fields, err)
		return err
	}

	logger.WithFields(fields).Info("user unfollowed")
	notify(ctx, s.engine.notifier, profileChange(targetID, profilePath(actorID)))
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := s.engine.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, internalError("is following", err)
	}
	return count > 0, nil
}

// GetUserStats counts follow edges at read time; the totals are not stored.
func (s *FollowService) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	db := s.engine.db.WithContext(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	stats := &UserStats{UserID: userID}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&stats.TotalFollowers).Error; err != nil {
		return nil, internalError("count followers", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.TotalFollowing).Error; err != nil {
		return nil, internalError("count following", err)
	}
	return stats, nil
}

// ListFollows returns userID's followers and followees, each flagged with
// whether viewerID follows them.
func (s *FollowService) ListFollows(ctx context.Context, viewerID, userID string) (*FollowLists, error) {
	db := s.engine.db.WithContext(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	var viewerFollows []string
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", viewerID).Pluck("following_id", &viewerFollows).Error; err != nil {
		return nil, internalError("list viewer follows", err)
	}
	followed := make(map[string]bool, len(viewerFollows))
	for _, id := range viewerFollows {
		followed[id] = true
	}

	var followers, following []models.User
	err := db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&followers).Error
	if err != nil {
		return nil, internalError("list followers", err)
	}
	err = db.Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&following).Error
	if err != nil {
		return nil, internalError("list following", err)
	}

	return &FollowLists{
		Followers: summarize(followers, followed),
		Following: summarize(following, followed),
	}, nil
}

func summarize(users []models.User, followed map[string]bool) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserSummary{
			ID:          u.ID,
			Name:        u.Name,
			Image:       u.Image,
			IsFollowing: followed[u.ID],
		})
	}
	return out
}

func userExists(db *gorm.DB, userID string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return internalError("find user", err)
	}
	if count == 0 {
		return notFoundError("user")
	}
	return nil
}
