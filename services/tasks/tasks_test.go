package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pharmakiosk/models"
	"pharmakiosk/services/report"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls     int
	olderThan int
	result    int
}

func (f *fakeSweeper) ProcessAbandonedSessions(ctx context.Context, olderThanMinutes int) int {
	f.calls++
	f.olderThan = olderThanMinutes
	return f.result
}

type fakeReporter struct {
	calls int
	err   error
}

func (f *fakeReporter) GenerateMonthlyReport(ctx context.Context) (*models.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Report{ID: "r1", Name: "summary.pdf"}, nil
}

func TestNewSweepTask(t *testing.T) {
	task, opts, err := NewSweepTask(45)
	require.NoError(t, err)
	assert.Equal(t, TypeSweepSessions, task.Type())
	assert.NotEmpty(t, opts)

	var p SweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, 45, p.OlderThanMinutes)
}

func TestHandleSweep(t *testing.T) {
	sweeper := &fakeSweeper{result: 4}
	h := NewHandlers(sweeper, &fakeReporter{}, nil)

	task, _, err := NewSweepTask(30)
	require.NoError(t, err)
	require.NoError(t, h.HandleSweep(context.Background(), task))
	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, 30, sweeper.olderThan)

	t.Run("empty payload leaves the threshold to the service", func(t *testing.T) {
		require.NoError(t, h.HandleSweep(context.Background(), asynq.NewTask(TypeSweepSessions, nil)))
		assert.Equal(t, 0, sweeper.olderThan)
	})

	t.Run("malformed payload is not retried", func(t *testing.T) {
		err := h.HandleSweep(context.Background(), asynq.NewTask(TypeSweepSessions, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestHandleMonthlyReport(t *testing.T) {
	task, _, err := NewMonthlyReportTask("admin-1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"generated", nil, false},
		{"disabled is not an error", report.ErrMonthlyReportDisabled, false},
		{"failure is retried", errors.New("disk full"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &fakeReporter{err: tt.err}
			h := NewHandlers(&fakeSweeper{}, reporter, nil)
			err := h.HandleMonthlyReport(context.Background(), task)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, reporter.calls)
		})
	}
}
