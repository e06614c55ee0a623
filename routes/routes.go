package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/bookclub-server/controllers"
	"github.com/vnkhanh/bookclub-server/middleware"
)

// Options carries the per-route limiters. Nil limiters disable limiting.
type Options struct {
	AuthLimiter   *middleware.IPRateLimiter
	InviteLimiter *middleware.IPRateLimiter
}

func SetupRoutes(r *gin.Engine, opts Options) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitByIP(opts.AuthLimiter), controllers.Register)
			auth.POST("/login", middleware.RateLimitByIP(opts.AuthLimiter), controllers.Login)
			auth.POST("/logout", middleware.AuthRequired(), controllers.Logout)
		}
		api.GET("/me", middleware.AuthRequired(), controllers.Me)
		api.GET("/books", controllers.ListBooks)

		rooms := api.Group("/rooms")
		{
			rooms.GET("", controllers.ListRooms)
			rooms.GET("/:id", controllers.GetRoomDetail)
			rooms.POST("", middleware.AuthRequired(), controllers.CreateRoom)
			rooms.POST("/:id", middleware.AuthRequired(), controllers.RoomAction(opts.InviteLimiter))
			rooms.POST("/:id/messages", middleware.AuthRequired(), controllers.PostMessage)
			rooms.POST("/:id/invitations", middleware.AuthRequired(), middleware.RateLimitByIP(opts.InviteLimiter), controllers.SendInvitation)
			rooms.GET("/:id/invitations", middleware.AuthRequired(), middleware.CheckRoomHost(), controllers.ListRoomInvitations)
			rooms.PUT("/:id", middleware.AuthRequired(), middleware.CheckRoomHost(), controllers.UpdateRoom)
			rooms.DELETE("/:id", middleware.AuthRequired(), middleware.CheckRoomHost(), controllers.DeleteRoom)
		}

		api.DELETE("/messages/:id", middleware.AuthRequired(), controllers.DeleteMessage)

		users := api.Group("/users")
		{
			users.GET("/:id", middleware.OptionalAuth(), controllers.GetProfile)
			users.POST("/:id", middleware.AuthRequired(), controllers.ProfileAction)
		}

		invitations := api.Group("/invitations")
		invitations.Use(middleware.AuthRequired())
		{
			invitations.GET("", controllers.ListMyInvitations)
			invitations.POST("/:id/accept", controllers.AcceptInvitation)
			invitations.POST("/:id/reject", controllers.RejectInvitation)
		}
	}
}
