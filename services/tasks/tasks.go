package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSweepSessions = "sessions:sweep"
	TypeMonthlyReport = "reports:monthly"
)

// SweepPayload carries the idle threshold of a sweep run.
type SweepPayload struct {
	OlderThanMinutes int `json:"olderThanMinutes"`
}

// MonthlyReportPayload records who asked for the run.
type MonthlyReportPayload struct {
	RequestedBy string `json:"requestedBy"`
}

func NewSweepTask(olderThanMinutes int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SweepPayload{OlderThanMinutes: olderThanMinutes})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSweepSessions, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.Unique(time.Minute),
	}
	return task, opts, nil
}

func NewMonthlyReportTask(requestedBy string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(MonthlyReportPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeMonthlyReport, b)
	opts := []asynq.Option{
		asynq.MaxRetry(2),
		asynq.Timeout(10 * time.Minute),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts, nil
}

// Enqueuer hands background jobs to the worker process.
type Enqueuer interface {
	EnqueueSweep(ctx context.Context, olderThanMinutes int) (string, error)
	EnqueueMonthlyReport(ctx context.Context, requestedBy string) (string, error)
}

// AsynqEnqueuer enqueues tasks on the Redis-backed asynq queue.
type AsynqEnqueuer struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqEnqueuer(client *asynq.Client, logger *zap.Logger) *AsynqEnqueuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqEnqueuer{Client: client, Logger: logger}
}

func (e *AsynqEnqueuer) EnqueueSweep(ctx context.Context, olderThanMinutes int) (string, error) {
	task, opts, err := NewSweepTask(olderThanMinutes)
	if err != nil {
		return "", fmt.Errorf("failed to build sweep task: %w", err)
	}
	return e.enqueue(ctx, task, opts)
}

func (e *AsynqEnqueuer) EnqueueMonthlyReport(ctx context.Context, requestedBy string) (string, error) {
	task, opts, err := NewMonthlyReportTask(requestedBy)
	if err != nil {
		return "", fmt.Errorf("failed to build monthly report task: %w", err)
	}
	return e.enqueue(ctx, task, opts)
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) (string, error) {
	info, err := e.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		e.Logger.Error("Failed to enqueue task", zap.String("type", task.Type()), zap.Error(err))
		return "", fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	e.Logger.Info("Task enqueued", zap.String("type", task.Type()), zap.String("taskId", info.ID), zap.String("queue", info.Queue))
	return info.ID, nil
}
