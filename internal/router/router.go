package router

import (
	"time"

	"plaza/config"
	"plaza/internal/games"
	"plaza/internal/handler"
	"plaza/internal/middleware"
	"plaza/internal/repository"
	"plaza/internal/service"
	"plaza/internal/ws"
	"plaza/pkg/cloudinary"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const gameSessionTTL = 30 * time.Minute

// Setup wires repositories, services and handlers. Background sweepers
// run until stop is closed.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, log *logger.Logger, stop <-chan struct{}) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	pollRepo := repository.NewPollRepository(db)
	gameRepo := repository.NewGameRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()
	sessions := games.NewStore(gameSessionTTL)
	go sessions.Run(stop)

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath, log)
	if fcmSvc != nil {
		log.Info("push notifications enabled")
	} else {
		log.Info("push notifications disabled", "service_account_path", cfg.Firebase.ServiceAccountPath)
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub, fcmSvc, log)
	ledger := service.NewPointsLedger(db, userRepo, log)
	evaluator := service.NewBadgeEvaluator(db, badgeRepo, activityRepo, log)
	dispatcher := service.NewActivityDispatcher(db, userRepo, activityRepo, ledger, evaluator, notifSvc, log)
	presenceSvc := service.NewPresenceService(presenceRepo, log)
	authSvc := service.NewAuthService(cfg, userRepo, dispatcher, presenceSvc, log)
	profileSvc := service.NewProfileService(userRepo, badgeRepo, postRepo, cloud)
	postSvc := service.NewPostService(postRepo, commentRepo, reactionRepo, userRepo, cloud, dispatcher, notifSvc, log)
	videoSvc := service.NewVideoService(videoRepo, commentRepo, reactionRepo, userRepo, cloud, dispatcher, notifSvc, log)
	chatSvc := service.NewChatService(messageRepo, userRepo, hub, dispatcher, notifSvc, log)
	pollSvc := service.NewPollService(pollRepo, dispatcher, log)
	gameSvc := service.NewGameService(gameRepo, sessions, dispatcher, log)
	moderationSvc := service.NewModerationService(userRepo, postRepo, commentRepo, videoRepo, reportRepo, adminRepo, auditRepo, cloud, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, profileSvc, auditRepo, log)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(&cfg.OAuth, authSvc, log)
	profileHandler := handler.NewProfileHandler(profileSvc, log)
	postHandler := handler.NewPostHandler(postSvc, log)
	videoHandler := handler.NewVideoHandler(videoSvc, log)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	chatWSHandler := handler.NewChatWSHandler(&cfg.JWT, hub, chatSvc, presenceSvc, log)
	pollHandler := handler.NewPollHandler(pollSvc, log)
	gameHandler := handler.NewGameHandler(gameSvc, log)
	notificationHandler := handler.NewNotificationHandler(notifSvc, log)
	reportHandler := handler.NewReportHandler(moderationSvc, log)
	presenceHandler := handler.NewPresenceHandler(presenceSvc, presenceRepo, log)
	adminHandler := handler.NewAdminHandler(moderationSvc, adminRepo, auditRepo, log)

	limiter := middleware.NewInMemoryRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	go limiter.Run(stop)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	api.Use(
		middleware.OptionalAuth(&cfg.JWT),
		middleware.RateLimit(limiter),
		middleware.TrackPresence(presenceSvc, cfg.Gamification.OfflineAfter, log),
	)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		// public reads; OptionalAuth fills the viewer when a token is sent
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.GET("/videos", videoHandler.Feed)
		api.GET("/polls", pollHandler.List)
		api.GET("/polls/:id", pollHandler.Get)
		api.GET("/badges", profileHandler.Catalog)
		api.GET("/users/:username", profileHandler.Get)
		api.GET("/games/leaderboard", gameHandler.Leaderboards)
		api.GET("/presence/online", presenceHandler.Online)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", authHandler.Me)
			me.PUT("/profile", profileHandler.Update)
			me.PUT("/fcm-token", authHandler.UpdateFCMToken)
			me.GET("/badges", profileHandler.MyBadges)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		}

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.POST("/posts", postHandler.Create)
			authed.POST("/posts/:id/comments", postHandler.Comment)
			authed.POST("/posts/:id/react", postHandler.React)

			authed.POST("/videos", videoHandler.Upload)
			authed.POST("/videos/:id/react", videoHandler.React)
			authed.POST("/videos/:id/comments", videoHandler.Comment)

			authed.GET("/chat/global", chatHandler.Global)
			authed.POST("/chat/global", chatHandler.SendGlobal)
			authed.GET("/chat/private/:username", chatHandler.Private)
			authed.POST("/chat/private/:username", chatHandler.SendPrivate)

			authed.POST("/polls", pollHandler.Create)
			authed.POST("/polls/:id/vote", pollHandler.Vote)

			authed.GET("/games", gameHandler.Overview)
			authed.POST("/games/snake/score", gameHandler.SubmitSnake)
			authed.GET("/games/quiz/question", gameHandler.QuizQuestion)
			authed.POST("/games/quiz/answer", gameHandler.QuizAnswer)
			authed.POST("/games/guess/start", gameHandler.GuessStart)
			authed.POST("/games/guess", gameHandler.Guess)

			authed.POST("/reports", reportHandler.Create)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/statistics", adminHandler.Statistics)
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/verify", adminHandler.ToggleVerify)
			admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.POST("/posts/:id/pin", adminHandler.TogglePostPin)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)
			admin.POST("/videos/:id/pin", adminHandler.ToggleVideoPin)
			admin.DELETE("/videos/:id", adminHandler.DeleteVideo)
			admin.GET("/reports", adminHandler.ListReports)
			admin.PATCH("/reports/:id", adminHandler.UpdateReport)
			admin.GET("/audit-logs", adminHandler.AuditLogs)
		}
	}

	r.GET("/ws/chat", chatWSHandler.Serve)
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	return r
}
