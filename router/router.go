package router

import (
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/handlers"
	"github.com/campusconnect/campus-backend/internal/websocket"
	"github.com/campusconnect/campus-backend/middleware"
	"github.com/campusconnect/campus-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies holds everything the routes need.
type Dependencies struct {
	Config              *config.Config
	JWTValidator        middleware.Validator
	Profiles            middleware.ProfileLookup
	RateLimiter         services.RateLimiterInterface
	ClubHandler         *handlers.ClubHandler
	NotificationHandler *handlers.NotificationHandler
	EventHandler        *handlers.EventHandler
	LostFoundHandler    *handlers.LostFoundHandler
	SettingsHandler     *handlers.SettingsHandler
	HealthHandler       *handlers.HealthHandler
	WSHandler           *websocket.Handler
	Logger              *zap.Logger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(deps.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
			deps.Logger.Warn("Invalid trusted proxies, ignoring", zap.Error(err))
		}
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.ErrorHandler())

	r.GET("/health", deps.HealthHandler.Report)
	r.GET("/health/liveness", deps.HealthHandler.Live)
	r.GET("/health/readiness", deps.HealthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTValidator, deps.Profiles, deps.Logger))
	if deps.RateLimiter != nil {
		rl := deps.Config.RateLimit
		v1.Use(middleware.WriteRateLimiter(deps.RateLimiter, rl.WriteRequestsPerMinute,
			time.Duration(rl.WindowSeconds)*time.Second, deps.Logger))
	}

	clubs := v1.Group("/clubs")
	{
		clubs.GET("", deps.ClubHandler.ListClubsHandler)
		clubs.GET("/top", deps.ClubHandler.TopClubsHandler)
		clubs.GET("/joined", deps.ClubHandler.JoinedClubsHandler)
		clubs.GET("/:id", deps.ClubHandler.GetClubHandler)
		clubs.POST("/:id/join", deps.ClubHandler.JoinClubHandler)
		clubs.DELETE("/:id/join", deps.ClubHandler.LeaveClubHandler)
		clubs.GET("/:id/members", deps.ClubHandler.ListMembersHandler)
		clubs.GET("/:id/posts", deps.ClubHandler.ListPostsHandler)
		clubs.POST("/:id/posts", deps.ClubHandler.CreatePostHandler)
	}

	posts := v1.Group("/posts")
	{
		posts.PUT("/:postId", deps.ClubHandler.EditPostHandler)
		posts.DELETE("/:postId", deps.ClubHandler.DeletePostHandler)
		posts.POST("/:postId/like", deps.ClubHandler.LikePostHandler)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("", deps.NotificationHandler.GetNotificationsHandler)
		notifications.GET("/recent", deps.NotificationHandler.RecentNotificationsHandler)
		notifications.GET("/unread-count", deps.NotificationHandler.UnreadCountHandler)
		notifications.PATCH("/read-all", deps.NotificationHandler.MarkAllReadHandler)
		notifications.PATCH("/:id/read", deps.NotificationHandler.MarkReadHandler)
		notifications.POST("/:id/accept", deps.NotificationHandler.AcceptFriendRequestHandler)
		notifications.POST("/:id/decline", deps.NotificationHandler.DeclineFriendRequestHandler)
		if deps.WSHandler != nil {
			notifications.GET("/ws", deps.WSHandler.HandleWebSocket)
		}
	}

	events := v1.Group("/events")
	{
		events.GET("", deps.EventHandler.ListEventsHandler)
		events.POST("", deps.EventHandler.CreateEventHandler)
		events.GET("/:id", deps.EventHandler.GetEventHandler)
		events.POST("/:id/rsvp", deps.EventHandler.ToggleRSVPHandler)
		events.DELETE("/:id/rsvp", deps.EventHandler.CancelRSVPHandler)
		events.GET("/:id/comments", deps.EventHandler.ListCommentsHandler)
		events.POST("/:id/comments", deps.EventHandler.AddCommentHandler)
		events.DELETE("/:id/comments/:commentId", deps.EventHandler.DeleteCommentHandler)
	}

	lostFound := v1.Group("/lost-found")
	{
		lostFound.GET("", deps.LostFoundHandler.ListItemsHandler)
		lostFound.POST("", deps.LostFoundHandler.CreateItemHandler)
		lostFound.GET("/:id", deps.LostFoundHandler.GetItemHandler)
		lostFound.PATCH("/:id/resolve", deps.LostFoundHandler.ResolveItemHandler)
		lostFound.POST("/:id/contact", deps.LostFoundHandler.ContactReporterHandler)
		lostFound.GET("/:id/comments", deps.LostFoundHandler.ListCommentsHandler)
		lostFound.POST("/:id/comments", deps.LostFoundHandler.AddCommentHandler)
		lostFound.DELETE("/:id/comments/:commentId", deps.LostFoundHandler.DeleteCommentHandler)
	}

	settings := v1.Group("/settings")
	{
		settings.GET("", deps.SettingsHandler.GetSettingsHandler)
		settings.PUT("/profile", deps.SettingsHandler.UpdateProfileHandler)
		settings.PUT("/notifications", deps.SettingsHandler.UpdateNotificationSettingsHandler)
		settings.POST("/profile-photo", deps.SettingsHandler.UploadProfilePhotoHandler)
		settings.DELETE("/account", deps.SettingsHandler.DeleteAccountHandler)
	}

	return r
}
