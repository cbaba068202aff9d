package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmakiosk/config"
	"pharmakiosk/cron"
	"pharmakiosk/database"
	positionRepo "pharmakiosk/database/repository/position"
	reportRepo "pharmakiosk/database/repository/report"
	sessionRepo "pharmakiosk/database/repository/session"
	settingsRepo "pharmakiosk/database/repository/settings"
	userRepo "pharmakiosk/database/repository/user"
	"pharmakiosk/services/report"
	"pharmakiosk/services/session"
	"pharmakiosk/services/settings"
	"pharmakiosk/services/staff"
	"pharmakiosk/services/storage"
	"pharmakiosk/services/tasks"
	"pharmakiosk/utils"

	"go.uber.org/zap"
)

// The worker consumes the sweep and monthly-report tasks enqueued by the API
// or by an external scheduler.
func main() {
	config.LoadConfig()
	logger := utils.GetLogger().Named("worker")
	defer logger.Sync()

	database.InitDB()
	db := database.Database()

	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using local time", zap.String("timezone", config.AppConfig.Timezone), zap.Error(err))
		loc = time.Local
	}

	sessions := sessionRepo.NewMongoSessionRepo(db)
	staffService := staff.NewStaffService(userRepo.NewMongoUserRepo(db), positionRepo.NewMongoPositionRepo(db), logger)
	settingsService := settings.NewSettingsService(settingsRepo.NewMongoSettingsRepo(db), logger)

	var archive storage.ArchiveService
	if config.AppConfig.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryArchive(config.AppConfig.CloudinaryURL, config.AppConfig.ArchiveEncryptionKey)
		if err != nil {
			logger.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		archive = cld
	}

	sessionService := session.NewSessionService(sessions, logger.Named("session"))
	sessionService.Settings = settingsService
	sessionService.SweepAfterMinutes = config.AppConfig.SweepAfterMinutes
	reportService := report.NewReportService(
		reportRepo.NewMongoReportRepo(db),
		sessions,
		staffService,
		settingsService,
		archive,
		config.AppConfig.ReportsDir,
		loc,
		logger.Named("report"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers := tasks.NewHandlers(sessionService, reportService, logger)
	if err := cron.RunWorker(ctx, cron.NewWorkerServer(logger), handlers, logger); err != nil {
		logger.Fatal("Worker stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
	}
}
