package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmakiosk/config"
	"pharmakiosk/database"
	positionRepo "pharmakiosk/database/repository/position"
	reportRepo "pharmakiosk/database/repository/report"
	sessionRepo "pharmakiosk/database/repository/session"
	settingsRepo "pharmakiosk/database/repository/settings"
	userRepo "pharmakiosk/database/repository/user"
	"pharmakiosk/handlers"
	"pharmakiosk/middleware"
	"pharmakiosk/routes"
	"pharmakiosk/services/report"
	"pharmakiosk/services/session"
	"pharmakiosk/services/settings"
	"pharmakiosk/services/staff"
	"pharmakiosk/services/stats"
	"pharmakiosk/services/storage"
	"pharmakiosk/services/tasks"
	"pharmakiosk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// indexer is implemented by every repository.
type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	if err := config.AppConfig.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	database.InitDB()
	db := database.Database()

	cacheReady := true
	if err := utils.InitCache(); err != nil {
		cacheReady = false
		logger.Warn("Redis unavailable, running without stats cache or task queue", zap.Error(err))
	}

	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using local time", zap.String("timezone", config.AppConfig.Timezone), zap.Error(err))
		loc = time.Local
	}

	// repositories.
	sessions := sessionRepo.NewMongoSessionRepo(db)
	reports := reportRepo.NewMongoReportRepo(db)
	users := userRepo.NewMongoUserRepo(db)
	positions := positionRepo.NewMongoPositionRepo(db)
	settingsStore := settingsRepo.NewMongoSettingsRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	for name, repo := range map[string]indexer{
		"sessions":  sessions,
		"reports":   reports,
		"users":     users,
		"positions": positions,
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancel()

	// services.
	sessionService := session.NewSessionService(sessions, logger.Named("session"))
	staffService := staff.NewStaffService(users, positions, logger.Named("staff"))
	settingsService := settings.NewSettingsService(settingsStore, logger.Named("settings"))
	sessionService.Settings = settingsService
	sessionService.SweepAfterMinutes = config.AppConfig.SweepAfterMinutes
	statsService := stats.NewStatsService(
		sessions,
		staffService,
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.StatsCacheTTLSeconds)*time.Second,
		loc,
		logger.Named("stats"),
	)

	var archive storage.ArchiveService
	if config.AppConfig.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryArchive(config.AppConfig.CloudinaryURL, config.AppConfig.ArchiveEncryptionKey)
		if err != nil {
			logger.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		archive = cld
	}
	reportService := report.NewReportService(
		reports,
		sessions,
		staffService,
		settingsService,
		archive,
		config.AppConfig.ReportsDir,
		loc,
		logger.Named("report"),
	)

	if email := config.AppConfig.AdminEmail; email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := staffService.EnsureAdmin(ctx, email, config.AppConfig.AdminPassword); err != nil {
			logger.Fatal("Failed to bootstrap admin account", zap.String("email", email), zap.Error(err))
		}
		cancel()
	}

	var enqueuer tasks.Enqueuer
	if cacheReady {
		queue := asynq.NewClient(utils.QueueRedisOpt())
		defer queue.Close()
		enqueuer = tasks.NewAsynqEnqueuer(queue, logger.Named("tasks"))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger.Named("http")))

	handlerBundle := &handlers.HandlerBundle{
		Kiosk:    handlers.NewKioskHandler(sessionService, staffService, settingsService, logger),
		Stats:    handlers.NewStatsHandler(statsService, logger),
		Sessions: handlers.NewSessionAdminHandler(sessionService, enqueuer, logger),
		Reports:  handlers.NewReportHandler(reportService, enqueuer, logger),
		Staff:    handlers.NewStaffHandler(staffService, logger),
		Settings: handlers.NewSettingsHandler(settingsService, logger),
		Health:   handlers.NewHealthHandler(database.MongoClient, utils.GetCacheClient()),
	}
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		KioskRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		LoginRequestsPerMin: 10,
		Logger:              logger.Named("ratelimit"),
	})

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server is shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}
