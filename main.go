// @title Campus Connect API
// @version 1.0
// @description Clubs, events, lost and found, notifications and settings for the campus app.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/db"
	_ "github.com/campusconnect/campus-backend/docs"
	"github.com/campusconnect/campus-backend/handlers"
	"github.com/campusconnect/campus-backend/internal/events"
	"github.com/campusconnect/campus-backend/internal/storage"
	"github.com/campusconnect/campus-backend/internal/websocket"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/middleware"
	clubSvc "github.com/campusconnect/campus-backend/models/club/service"
	eventSvc "github.com/campusconnect/campus-backend/models/event/service"
	lostFoundSvc "github.com/campusconnect/campus-backend/models/lostfound/service"
	notificationSvc "github.com/campusconnect/campus-backend/models/notification/service"
	userSvc "github.com/campusconnect/campus-backend/models/user/service"
	"github.com/campusconnect/campus-backend/router"
	"github.com/campusconnect/campus-backend/services"
	"github.com/campusconnect/campus-backend/store/postgres"
	"github.com/campusconnect/campus-backend/store/supabase"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	supa "github.com/supabase-community/supabase-go"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unreachable at startup, continuing degraded", "error", err)
	}

	supabaseClient, err := supa.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, &supa.ClientOptions{})
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}

	// Stores
	clubStore := postgres.NewPgClubStore(pool)
	postStore := postgres.NewPgPostStore(pool)
	eventStore := postgres.NewPgEventStore(pool)
	commentStore := postgres.NewPgCommentStore(pool)
	notificationStore := postgres.NewPgNotificationStore(pool)
	friendRequestStore := postgres.NewPgFriendRequestStore(pool)
	userStore := postgres.NewPgUserStore(pool)
	chatStore := postgres.NewPgChatStore(pool)
	lostFoundStore := supabase.NewLostFoundStore(supabaseClient, cfg.Supabase.LostFoundTable, supabase.BreakerSettings{
		ConsecutiveFailures: cfg.Supabase.BreakerFailures,
		OpenTimeout:         time.Duration(cfg.Supabase.BreakerTimeoutSeconds) * time.Second,
	})

	// File storage
	var images storage.FileStorage = storage.Disabled{}
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		images = s3Storage
	}
	lostItemPhotos := storage.NewSupabaseStorage(supabaseClient, cfg.Supabase.LostItemBucket)
	profilePhotos := storage.NewSupabaseStorage(supabaseClient, cfg.Supabase.ProfileBucket).WithUpsert()
	limits := storage.ImageLimits{
		MaxDimension: cfg.Upload.MaxDimension,
		MaxBytes:     cfg.Upload.MaxImageBytes,
		MaxPixels:    cfg.Upload.MaxPixels,
	}

	// Events and background work
	publisher := events.NewRedisPublisher(redisClient, events.Config{
		PublishTimeout:   time.Duration(cfg.EventService.PublishTimeoutSeconds) * time.Second,
		SubscribeTimeout: time.Duration(cfg.EventService.SubscribeTimeoutSeconds) * time.Second,
		EventBufferSize:  cfg.EventService.EventBufferSize,
	})
	eventService := events.NewService(publisher)

	workerPool := services.NewWorkerPool(cfg.WorkerPool)
	workerPool.Start()

	var emailer notificationSvc.Emailer
	if cfg.Email.Enabled {
		emailer = services.NewEmailService(&cfg.Email, logger.Named("Email"))
	}

	// Domain services
	notificationService := notificationSvc.NewNotificationService(notificationStore, userStore, friendRequestStore,
		eventService, emailer, logger.Named("NotificationService"))
	if err := eventService.RegisterHandler("notification-fanout",
		notificationSvc.NewFanOut(notificationService, workerPool, logger.Named("NotificationService"))); err != nil {
		log.Fatalf("Failed to register notification fan-out: %v", err)
	}
	clubService := clubSvc.NewClubService(clubStore, postStore, images, eventService, limits, logger.Named("ClubService"))
	campusEventService := eventSvc.NewEventService(eventStore, commentStore, images, eventService, limits, logger.Named("EventService"))
	lostFoundService := lostFoundSvc.NewLostFoundService(lostFoundStore, chatStore, commentStore, lostItemPhotos,
		eventService, limits, logger.Named("LostFoundService"))
	settingsService := userSvc.NewSettingsService(userStore, clubStore, eventStore, notificationStore, profilePhotos,
		limits, logger.Named("SettingsService"))

	healthService := services.NewHealthService(pool, redisClient, lostFoundStore, cfg.Server.Version, logger.Named("HealthService"))

	if cfg.Reconcile.Enabled {
		reconciler := services.NewReconciler(map[string]services.CounterReconciler{
			"club_member_count": clubStore.ReconcileMemberCounts,
			"post_likes":        postStore.ReconcileLikeCounts,
		}, workerPool, cfg.Reconcile.Interval(), logger.Named("Reconciler"))
		go reconciler.Start(ctx)
	}

	jwtValidator, err := middleware.NewJWTValidator(cfg.Supabase.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to create JWT validator: %v", err)
	}

	hub := websocket.NewHub(eventService, clubStore)

	r := router.SetupRouter(router.Dependencies{
		Config:              cfg,
		JWTValidator:        jwtValidator,
		Profiles:            userStore,
		RateLimiter:         services.NewRateLimitService(redisClient),
		ClubHandler:         handlers.NewClubHandler(clubService, cfg.Upload.MaxUploadBytes, logger.Named("ClubHandler")),
		NotificationHandler: handlers.NewNotificationHandler(notificationService, logger.Named("NotificationHandler")),
		EventHandler:        handlers.NewEventHandler(campusEventService, cfg.Upload.MaxUploadBytes, logger.Named("EventHandler")),
		LostFoundHandler:    handlers.NewLostFoundHandler(lostFoundService, cfg.Upload.MaxUploadBytes, logger.Named("LostFoundHandler")),
		SettingsHandler:     handlers.NewSettingsHandler(settingsService, cfg.Upload.MaxUploadBytes, logger.Named("SettingsHandler")),
		HealthHandler:       handlers.NewHealthHandler(healthService),
		WSHandler:           websocket.NewHandler(hub, &cfg.Server),
		Logger:              logger.Named("Router"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownTimeout := time.Duration(cfg.WorkerPool.ShutdownTimeoutSeconds) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Websocket hub shutdown failed", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Worker pool did not drain", "error", err)
	}
	if err := eventService.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Event service shutdown failed", "error", err)
	}
	log.Infow("Server stopped", "version", cfg.Server.Version)
}
