package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/esgchampions/internal/app/controllers"
	"github.com/yigit/esgchampions/internal/middleware"
	"github.com/yigit/esgchampions/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	reviewController *controllers.ReviewController,
	adminController *controllers.AdminController,
	rankingController *controllers.RankingController,
	engagementController *controllers.EngagementController,
	liveHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Public catalog and ranking routes ---
	panels := v1.Group("/panels")
	{
		panels.GET("", catalogController.ListPanels)
		panels.GET("/:id", catalogController.GetPanel)
		panels.GET("/:id/indicators", catalogController.ListIndicators)
	}

	rankings := v1.Group("/rankings")
	{
		rankings.GET("", rankingController.Summary)
		rankings.GET("/leaderboard", rankingController.Leaderboard)
	}
	// Subscribers only need a token when they want their champion id logged
	v1.GET("/rankings/live", authMiddleware.WebSocketAuth(), liveHandler.RankingsLive)

	// Indicator reads show the caller's own vote when a token is sent
	indicatorsPublic := v1.Group("/indicators")
	indicatorsPublic.Use(authMiddleware.OptionalAuth())
	{
		indicatorsPublic.GET("/:id", catalogController.GetIndicator)
		indicatorsPublic.GET("/:id/votes", engagementController.Votes)
		indicatorsPublic.GET("/:id/comments", engagementController.Comments)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.PUT("/champions/me", authController.UpdateProfile)
		authenticated.GET("/champions/me/participation", engagementController.Participation)
		authenticated.GET("/champions/me/credits", engagementController.Credits)

		authenticated.POST("/reviews", reviewController.Submit)

		indicators := authenticated.Group("/indicators")
		{
			indicators.PUT("/:id/vote", engagementController.CastVote)
			indicators.POST("/:id/comments", engagementController.AddComment)
			indicators.GET("/:id/reviews/me", engagementController.MyReview)
		}

		authenticated.POST("/invitations", engagementController.Invite)
		authenticated.GET("/invitations", engagementController.Invitations)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/reviews", adminController.ListReviews)
			admin.GET("/reviews/stats", adminController.Stats)
			admin.POST("/reviews/:id/accept", adminController.AcceptReview)
			admin.POST("/reviews/:id/delete", adminController.DeleteReview)
			admin.GET("/accepted-reviews", adminController.AcceptedReviews)
			admin.GET("/actions", adminController.AdminActions)

			admin.POST("/panels", catalogController.CreatePanel)
			admin.PUT("/panels/:id", catalogController.UpdatePanel)
			admin.DELETE("/panels/:id", catalogController.DeletePanel)
			admin.POST("/indicators", catalogController.CreateIndicator)
			admin.PUT("/indicators/:id", catalogController.UpdateIndicator)
			admin.DELETE("/indicators/:id", catalogController.DeleteIndicator)
		}
	}
}
