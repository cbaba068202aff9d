package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pharmakiosk/models"
	"pharmakiosk/services/report"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Sweeper is the part of the session service the sweep task needs.
type Sweeper interface {
	ProcessAbandonedSessions(ctx context.Context, olderThanMinutes int) int
}

// MonthlyReporter is the part of the report service the monthly task needs.
type MonthlyReporter interface {
	GenerateMonthlyReport(ctx context.Context) (*models.Report, error)
}

type Handlers struct {
	Sessions Sweeper
	Reports  MonthlyReporter
	Logger   *zap.Logger
}

func NewHandlers(sessions Sweeper, reports MonthlyReporter, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{Sessions: sessions, Reports: reports, Logger: logger}
}

// Register binds every task type to its handler.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSweepSessions, h.HandleSweep)
	mux.HandleFunc(TypeMonthlyReport, h.HandleMonthlyReport)
}

func (h *Handlers) HandleSweep(ctx context.Context, task *asynq.Task) error {
	var p SweepPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			h.Logger.Error("Invalid sweep payload", zap.Error(err))
			return fmt.Errorf("invalid sweep payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	// A zero threshold lets the session service apply the configured one.
	count := h.Sessions.ProcessAbandonedSessions(ctx, p.OlderThanMinutes)
	h.Logger.Info("Sweep task finished", zap.Int("processed", count), zap.Int("olderThanMinutes", p.OlderThanMinutes))
	return nil
}

func (h *Handlers) HandleMonthlyReport(ctx context.Context, task *asynq.Task) error {
	var p MonthlyReportPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			h.Logger.Error("Invalid monthly report payload", zap.Error(err))
			return fmt.Errorf("invalid monthly report payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	rep, err := h.Reports.GenerateMonthlyReport(ctx)
	if errors.Is(err, report.ErrMonthlyReportDisabled) {
		h.Logger.Info("Monthly report disabled, skipping", zap.String("requestedBy", p.RequestedBy))
		return nil
	}
	if err != nil {
		h.Logger.Error("Monthly report failed", zap.String("requestedBy", p.RequestedBy), zap.Error(err))
		return err
	}
	h.Logger.Info("Monthly report generated", zap.String("id", rep.ID), zap.String("name", rep.Name), zap.String("requestedBy", p.RequestedBy))
	return nil
}
