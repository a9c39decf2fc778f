package router

import (
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/cache"
	"github.com/MaekawaAo0604/muscle-SNS/internal/handlers"
	"github.com/MaekawaAo0604/muscle-SNS/internal/logger"
	"github.com/MaekawaAo0604/muscle-SNS/internal/middleware"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
	"github.com/MaekawaAo0604/muscle-SNS/internal/ws"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/cloudinary"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/config"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
}

// SetupRoutes wires repositories, services and handlers and registers every
// route. firebaseAuth and uploader may be nil; the affected endpoints then
// refuse with a configuration error instead of failing at startup.
func SetupRoutes(e *echo.Echo, db *gorm.DB, firebaseAuth *fbauth.Client, uploader cloudinary.Uploader, rc *cache.RedisCache, cfg *config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.TrainingProfile{},
		&models.Gym{},
		&models.GymMembership{},
		&models.Swipe{},
		&models.Match{},
		&models.Message{},
		&models.Block{},
		&models.Report{},
	); err != nil {
		return err
	}

	e.HTTPErrorHandler = apperrors.ErrorHandler(logger.L())

	userRepo := repositories.NewPostgresUserRepository(db)
	gymRepo := repositories.NewPostgresGymRepository(db)
	swipeRepo := repositories.NewPostgresSwipeRepository(db)
	matchRepo := repositories.NewPostgresMatchRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	reportRepo := repositories.NewPostgresReportRepository(db)

	hub := ws.NewHub()
	go hub.Run()

	candidateSvc := services.NewCandidateService(userRepo, swipeRepo, blockRepo)
	matchSvc := services.NewMatchService(swipeRepo, matchRepo, messageRepo, rc, logger.With("component", "matches"))
	messageSvc := services.NewMessageService(matchRepo, messageRepo, userRepo, rc, hub, logger.With("component", "messages"))
	safetySvc := services.NewSafetyService(userRepo, blockRepo, reportRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo, uploader)
	gymHandler := handlers.NewGymHandler(gymRepo)
	matchingHandler := handlers.NewMatchingHandler(candidateSvc, matchSvc)
	messageHandler := handlers.NewMessageHandler(messageSvc, uploader)
	safetyHandler := handlers.NewSafetyHandler(safetySvc)
	gateway := ws.NewGateway(hub, messageSvc, logger.With("component", "ws"))

	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/sync", authHandler.SyncUser, middleware.RequireFirebase(firebaseAuth))

	authenticated := middleware.Authenticate(firebaseAuth, cfg.JWTSecret, !cfg.IsProduction())
	protected := api.Group("", authenticated)

	users := protected.Group("/users")
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateProfile)
	users.POST("/me/image", userHandler.UploadProfileImage)
	users.GET("/:userId", userHandler.GetUser)

	gyms := protected.Group("/gyms")
	gyms.GET("", gymHandler.SearchGyms)
	gyms.GET("/chains", gymHandler.ListChains)
	gyms.GET("/memberships", gymHandler.ListMemberships)
	gyms.POST("/memberships", gymHandler.RegisterMembership)
	gyms.DELETE("/memberships/:gymId", gymHandler.UnregisterMembership)
	gyms.PUT("/memberships/:gymId/primary", gymHandler.SetPrimaryGym)
	gyms.GET("/:gymId", gymHandler.GetGym)

	matching := protected.Group("/matching")
	matching.GET("/potential", matchingHandler.GetPotentialMatches)
	matching.POST("/swipe", matchingHandler.Swipe)
	matching.GET("/matches", matchingHandler.ListMatches)
	matching.GET("/matches/:matchId", matchingHandler.GetMatch)
	matching.DELETE("/matches/:matchId", matchingHandler.DissolveMatch)

	messages := protected.Group("/matches/:matchId/messages")
	messages.GET("", messageHandler.ListMessages)
	messages.POST("", messageHandler.SendMessage)
	messages.POST("/image", messageHandler.SendImageMessage)
	messages.PUT("/read", messageHandler.MarkRead)
	messages.GET("/unread-count", messageHandler.UnreadCount)

	safety := protected.Group("/safety")
	safety.GET("/report-reasons", safetyHandler.ListReportReasons)
	safety.POST("/reports", safetyHandler.ReportUser)
	safety.POST("/blocks", safetyHandler.BlockUser)
	safety.GET("/blocks", safetyHandler.ListBlockedUsers)
	safety.DELETE("/blocks/:userId", safetyHandler.UnblockUser)

	admin := protected.Group("/admin")
	admin.GET("/reports", safetyHandler.ListReports)
	admin.PATCH("/reports/:reportId", safetyHandler.UpdateReportStatus)

	e.GET("/ws", gateway.HandleConnection, authenticated)

	return nil
}
