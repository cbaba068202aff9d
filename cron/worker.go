package cron

import (
	"context"
	"time"

	"pharmakiosk/config"
	"pharmakiosk/services/tasks"
	"pharmakiosk/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewWorkerServer builds the asynq server consuming the background job queue.
func NewWorkerServer(logger *zap.Logger) *asynq.Server {
	return asynq.NewServer(
		utils.QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)
}

// RunWorker starts the worker with bounded start retries and blocks until it stops.
func RunWorker(ctx context.Context, srv *asynq.Server, handlers *tasks.Handlers, logger *zap.Logger) error {
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	go monitorRedisConnection(ctx, logger)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			break
		}
		logger.Warn("Failed to start worker", zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempts == maxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts*2) * time.Second):
		}
	}
	logger.Info("Worker started", zap.Strings("tasks", []string{tasks.TypeSweepSessions, tasks.TypeMonthlyReport}))

	<-ctx.Done()
	logger.Info("Shutting down worker")
	srv.Shutdown()
	return nil
}

// monitorRedisConnection pings the queue Redis periodically to surface outages.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
