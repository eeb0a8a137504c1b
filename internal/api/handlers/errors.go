package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

func sendServiceError(c *gin.Context, message string, err error) {
	utils.SendServiceError(c, message, services.ErrorKind(err), err)
}

// callerID is the authenticated user set by the auth middleware.
func callerID(c *gin.Context) string {
	return c.GetString("user_id")
}

func pageParams(c *gin.Context) (int, int) {
	var q struct {
		Page  int `form:"page"`
		Limit int `form:"limit"`
	}
	_ = c.ShouldBindQuery(&q)
	return q.Page, q.Limit
}
