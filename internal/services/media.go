package services

import (
	"context"
	"strings"
	"time"

	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	QueryTimeout    = 30 * time.Second
)

type MediaService struct {
	engine *Engine
}

func NewMediaService(engine *Engine) *MediaService {
	return &MediaService{engine: engine}
}

type MediaFilter struct {
	Type   string `form:"type"`
	Genre  string `form:"genre"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type MediaPage struct {
	Media []models.MediaItem `json:"media"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int                `json:"pages"`
}

// Normalize applies pagination defaults and trims the text filters.
func (f *MediaFilter) Normalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.Genre = strings.TrimSpace(f.Genre)
	f.Search = strings.TrimSpace(f.Search)

	if f.Type != "" && !models.MediaType(f.Type).Valid() {
		return validationError("unknown media type %q", f.Type)
	}
	if len(f.Search) > 255 {
		return validationError("search term too long")
	}
	return nil
}

func (s *MediaService) ListMedia(ctx context.Context, filter MediaFilter) (*MediaPage, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	query := applyMediaFilters(s.engine.db.WithContext(ctx).Model(&models.MediaItem{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count media", err)
	}

	page := &MediaPage{Media: []models.MediaItem{}, Total: total, Page: filter.Page, Limit: filter.Limit}
	if total == 0 {
		return page, nil
	}

	err := query.
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Order("created_at DESC").
		Find(&page.Media).Error
	if err != nil {
		return nil, internalError("list media", err)
	}

	page.Pages = int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		page.Pages++
	}
	return page, nil
}

func applyMediaFilters(query *gorm.DB, filter MediaFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Genre != "" {
		query = query.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(filter.Genre)+"%")
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(director) LIKE ? OR LOWER(author) LIKE ? OR LOWER(artist) LIKE ?",
			term, term, term, term, term,
		)
	}
	return query
}

func (s *MediaService) GetMedia(ctx context.Context, mediaID string) (*models.MediaItem, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var media models.MediaItem
	if err := s.engine.db.WithContext(ctx).Where("id = ?", mediaID).First(&media).Error; err != nil {
		if isNotFound(err) {
			return nil, notFoundError("media item")
		}
		return nil, internalError("get media", err)
	}
	return &media, nil
}

// CreateMedia adds a catalog entry. Aggregates start at zero whatever the
// request carries.
func (s *MediaService) CreateMedia(ctx context.Context, req *models.CreateMediaRequest) (*models.MediaItem, error) {
	if req == nil {
		return nil, validationError("media request cannot be nil")
	}
	if !req.Type.Valid() {
		return nil, validationError("unknown media type %q", req.Type)
	}
	title := utils.SanitizeString(req.Title)
	if title == "" {
		return nil, validationError("title is required")
	}

	media := &models.MediaItem{
		Title:       title,
		Type:        req.Type,
		Year:        req.Year,
		Director:    utils.SanitizeString(req.Director),
		Author:      utils.SanitizeString(req.Author),
		Artist:      utils.SanitizeString(req.Artist),
		Genre:       utils.SanitizeString(req.Genre),
		Poster:      strings.TrimSpace(req.Poster),
		Description: utils.SanitizeString(req.Description),
	}
	if err := s.engine.db.WithContext(ctx).Omit(models.AggregateColumns...).Create(media).Error; err != nil {
		return nil, internalError("create media", err)
	}

	logger.WithFields(map[string]interface{}{"media_id": media.ID, "type": media.Type}).Info("media created")
	return media, nil
}

// UpdateMedia edits descriptive fields only. The aggregate columns are
// omitted from the statement so a catalog edit can never race a review
// transaction into a stale snapshot.
func (s *MediaService) UpdateMedia(ctx context.Context, mediaID string, req *models.UpdateMediaRequest) (*models.MediaItem, error) {
	if req == nil {
		return nil, validationError("media request cannot be nil")
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title := utils.SanitizeString(*req.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
		updates["title"] = title
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Director != nil {
		updates["director"] = utils.SanitizeString(*req.Director)
	}
	if req.Author != nil {
		updates["author"] = utils.SanitizeString(*req.Author)
	}
	if req.Artist != nil {
		updates["artist"] = utils.SanitizeString(*req.Artist)
	}
	if req.Genre != nil {
		updates["genre"] = utils.SanitizeString(*req.Genre)
	}
	if req.Poster != nil {
		updates["poster"] = strings.TrimSpace(*req.Poster)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}

	var media models.MediaItem
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", mediaID).First(&media).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("media item")
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&media).Omit(models.AggregateColumns...).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", mediaID).First(&media).Error
	})

	fields := map[string]interface{}{"media_id": mediaID}
	if err := txError("update media", err, WriteResult{}); err != nil {
		logOutcome("update media", fields, err)
		return nil, err
	}

	logger.WithFields(fields).Info("media updated")
	notify(ctx, s.engine.notifier, mediaChange(mediaID))
	return &media, nil
}

// RecomputeMedia rebuilds an item's aggregate from its reviews. It repairs
// rows written before the aggregate columns existed.
func (s *MediaService) RecomputeMedia(ctx context.Context, mediaID string) (*MediaAggregate, error) {
	var before, after MediaAggregate
	err := s.engine.transact(ctx, func(tx *gorm.DB) error {
		media, err := lockMedia(tx, mediaID)
		if err != nil {
			if isNotFound(err) {
				return notFoundError("media item")
			}
			return err
		}
		before = aggregateOf(media)
		after, err = recomputeMediaAggregate(tx, mediaID)
		return err
	})

	fields := map[string]interface{}{"media_id": mediaID}
	if err := txError("recompute media", err, WriteResult{}); err != nil {
		logOutcome("recompute media", fields, err)
		return nil, err
	}

	if before != after {
		fields["stale_average"] = before.AverageRating
		fields["stale_reviews"] = before.TotalReviews
		logger.WithFields(fields).Warn("media aggregate was stale")
		notify(ctx, s.engine.notifier, mediaChange(mediaID))
	}
	return &after, nil
}
