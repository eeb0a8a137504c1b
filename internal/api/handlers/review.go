package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	result, err := h.reviewService.CreateReview(c.Request.Context(), callerID(c), req)
	if err != nil {
		sendServiceError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review created successfully", result)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("review_id"))
	if err != nil {
		sendServiceError(c, "Failed to fetch review", err)
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var in services.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.SendBindError(c, err)
		return
	}

	result, err := h.reviewService.UpdateReview(c.Request.Context(), c.Param("review_id"), callerID(c), in)
	if err != nil {
		sendServiceError(c, "Failed to update review", err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", result)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	agg, err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("review_id"), callerID(c))
	if err != nil {
		sendServiceError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", gin.H{"aggregate": agg})
}

func (h *ReviewHandler) GetMediaReviews(c *gin.Context) {
	page, limit := pageParams(c)

	reviews, err := h.reviewService.ListMediaReviews(c.Request.Context(), c.Param("media_id"), page, limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}
