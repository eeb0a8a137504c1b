package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type FollowHandler struct {
	followService *services.FollowService
}

func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	result, err := h.followService.Follow(c.Request.Context(), callerID(c), c.Param("user_id"))
	if err != nil {
		sendServiceError(c, "Failed to follow user", err)
		return
	}

	utils.SendCreated(c, "User followed successfully", result)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.followService.Unfollow(c.Request.Context(), callerID(c), c.Param("user_id")); err != nil {
		sendServiceError(c, "Failed to unfollow user", err)
		return
	}

	utils.SendSuccess(c, "User unfollowed successfully", nil)
}

func (h *FollowHandler) IsFollowing(c *gin.Context) {
	target := c.Param("user_id")
	following, err := h.followService.IsFollowing(c.Request.Context(), callerID(c), target)
	if err != nil {
		sendServiceError(c, "Failed to check follow", err)
		return
	}

	utils.SendSuccess(c, "Follow status retrieved successfully", gin.H{
		"user_id":      target,
		"is_following": following,
	})
}

func (h *FollowHandler) ListFollows(c *gin.Context) {
	lists, err := h.followService.ListFollows(c.Request.Context(), callerID(c), c.Param("user_id"))
	if err != nil {
		sendServiceError(c, "Failed to fetch follows", err)
		return
	}

	utils.SendSuccess(c, "Follows retrieved successfully", lists)
}

func (h *FollowHandler) GetUserStats(c *gin.Context) {
	stats, err := h.followService.GetUserStats(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		sendServiceError(c, "Failed to fetch user stats", err)
		return
	}

	utils.SendSuccess(c, "User stats retrieved successfully", stats)
}
