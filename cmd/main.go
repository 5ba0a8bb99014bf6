package main

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"studio-service/internal/handler"
	"studio-service/internal/hub"
	"studio-service/internal/middleware"
	"studio-service/internal/store"
	"studio-service/pkg/billing"
	"studio-service/pkg/config"
	"studio-service/pkg/database"
	"studio-service/pkg/jwtutil"
	"studio-service/pkg/logger"
	"studio-service/pkg/mailer"
	"studio-service/pkg/uploads"
	"studio-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting studio service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Invitations live in Redis so the store expires them on its own
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Upload signing is optional; without a bucket the endpoint reports
	// itself unavailable
	var signer *uploads.Signer
	if cfg.AWS.Bucket != "" {
		signer, err = uploads.NewSigner(cfg.AWS)
		if err != nil {
			log.Fatal("Failed to initialize upload signer", zap.Error(err))
		}
	}

	mail := mailer.New(cfg.SMTP, log)
	eventHub := hub.New(log)

	h := &handler.Handler{
		DB:          db,
		Config:      cfg,
		Hub:         eventHub,
		Studios:     store.NewStudioStore(db),
		Schedules:   store.NewScheduleStore(db),
		Discussions: store.NewDiscussionStore(db),
		Posts:       store.NewPostStore(db),
		Invitations: store.NewInvitationStore(db, rdb, mail, cfg.App.BaseURL, log),
		Billing:     &billing.Offline{BaseURL: cfg.App.BaseURL},
		Uploads:     signer,
	}

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.GET("/ws", h.ServeWS)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)

	// Public lookups - invitation preview and public profiles
	public := e.Group("/api/v1/public")
	public.GET("/users/:user_slug", h.GetUserBySlug)
	public.GET("/invitations/:token/studio", h.GetStudioByInvitationToken)

	// Member routes - any authenticated studio member
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware)

	api.GET("/me", h.GetCurrentUser)
	api.PATCH("/me", h.UpdateProfile)
	api.POST("/me/theme", h.ToggleTheme)
	api.POST("/me/default-studio", h.SetDefaultStudio)
	api.GET("/initial-data", h.GetInitialData)

	studios := api.Group("/studios")
	studios.POST("", h.AddStudio)
	studios.GET("", h.GetStudios)
	studios.GET("/:studio_id/members", h.GetStudioMembers)
	studios.GET("/:studio_id/discussions", h.ListDiscussions)
	studios.GET("/:studio_id/schedule", h.GetSchedule)

	discussions := api.Group("/discussions")
	discussions.POST("", h.AddDiscussion)
	discussions.PATCH("/:discussion_id", h.EditDiscussion)
	discussions.DELETE("/:discussion_id", h.DeleteDiscussion)
	discussions.GET("/:discussion_id/posts", h.ListPosts)
	discussions.POST("/:discussion_id/posts", h.AddPost)

	posts := api.Group("/posts")
	posts.PATCH("/:post_id", h.EditPost)
	posts.DELETE("/:post_id", h.DeletePost)

	api.POST("/invitations/accept", h.AcceptInvitation)
	api.POST("/schedules/:schedule_id/students", h.UpdateScheduleStudents)
	api.GET("/uploads/sign", h.SignAvatarUpload)

	// Teacher routes - owner-gated operations; the stores enforce ownership,
	// the grouping just keeps the surface readable
	teacher := api.Group("/studios/:studio_id")
	teacher.PATCH("", h.UpdateStudio)
	teacher.DELETE("/members/:user_id", h.RemoveStudioMember)
	teacher.GET("/invitations", h.ListInvitations)
	teacher.POST("/invitations", h.InviteMember)
	teacher.POST("/schedule", h.CreateSchedule)
	teacher.PUT("/schedule/availability", h.ReplaceAvailability)
	teacher.POST("/schedule/availability", h.AppendAvailabilityWindow)
	teacher.POST("/billing/checkout", h.CreateCheckoutSession)
	teacher.POST("/billing/confirm", h.ConfirmSubscription)
	teacher.POST("/billing/cancel", h.CancelSubscription)
	teacher.GET("/billing/invoices", h.ListInvoices)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
