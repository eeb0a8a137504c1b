package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/api/handlers"
	"github.com/mediashelf/mediashelf-backend/internal/api/middleware"
	"github.com/mediashelf/mediashelf-backend/internal/config"
	"github.com/mediashelf/mediashelf-backend/internal/database"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, notifier services.Notifier) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	engine := services.NewEngine(db, database.TxOptions(cfg.DatabaseDriver, cfg.TxIsolation), notifier)

	// Initialize services
	followService := services.NewFollowService(engine)
	reviewService := services.NewReviewService(engine, cfg.ReviewTextMaxLength)
	likeService := services.NewLikeService(engine)
	commentService := services.NewCommentService(engine, cfg.CommentTextMaxLength)
	mediaService := services.NewMediaService(engine)
	userService := services.NewUserService(engine)

	// Initialize handlers
	followHandler := handlers.NewFollowHandler(followService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	likeHandler := handlers.NewLikeHandler(likeService)
	commentHandler := handlers.NewCommentHandler(commentService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	userHandler := handlers.NewUserHandler(userService)

	auth := middleware.AuthMiddleware(cfg)
	member := middleware.MemberOrAdmin()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := database.Ping(db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	media := api.Group("/media")
	{
		media.GET("", mediaHandler.ListMedia)
		media.GET("/:media_id", mediaHandler.GetMedia)
		media.GET("/:media_id/reviews", reviewHandler.GetMediaReviews)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", auth, member, reviewHandler.CreateReview)
		reviews.GET("/:review_id", reviewHandler.GetReview)
		reviews.PATCH("/:review_id", auth, member, reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", auth, member, reviewHandler.DeleteReview)
		reviews.POST("/:review_id/like", auth, member, likeHandler.LikeReview)
		reviews.DELETE("/:review_id/like", auth, member, likeHandler.UnlikeReview)
	}

	comments := api.Group("/comments", auth, member)
	{
		comments.POST("", commentHandler.AddComment)
		comments.DELETE("/:comment_id", commentHandler.DeleteComment)
	}

	users := api.Group("/users")
	{
		users.PATCH("/me", auth, member, userHandler.UpdateName)
		users.DELETE("/me", auth, member, userHandler.DeleteAccount)
		users.GET("/:user_id/stats", followHandler.GetUserStats)
		users.GET("/:user_id/follow", auth, member, followHandler.IsFollowing)
		users.POST("/:user_id/follow", auth, member, followHandler.Follow)
		users.DELETE("/:user_id/follow", auth, member, followHandler.Unfollow)
		users.GET("/:user_id/follows", middleware.OptionalAuth(cfg), followHandler.ListFollows)
	}

	// Admin routes
	admin := api.Group("/admin", auth, middleware.AdminOnly())
	{
		admin.POST("/media", mediaHandler.CreateMedia)
		admin.PUT("/media/:media_id", mediaHandler.UpdateMedia)
		admin.POST("/media/:media_id/recompute", mediaHandler.RecomputeMedia)
	}

	logger.Info("Routes initialized successfully")
}
