package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/nmoreno/biblio-backend/internal/lending"
	"github.com/nmoreno/biblio-backend/pkg/logger"
	"github.com/nmoreno/biblio-backend/pkg/metrics"
)

// OverdueSweepJobParams configure the overdue sweep job.
type OverdueSweepJobParams struct {
	Logger  *logger.Logger
	Lending lending.Service
	Metrics *metrics.CronJobMetrics
	Now     func() time.Time
}

// NewOverdueSweepJob builds the cron job that marks past-due orders overdue.
func NewOverdueSweepJob(params OverdueSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lending == nil {
		return nil, fmt.Errorf("lending service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &overdueSweepJob{
		logg:    params.Logger,
		lending: params.Lending,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

type overdueSweepJob struct {
	logg    *logger.Logger
	lending lending.Service
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *overdueSweepJob) Name() string { return "overdue-sweep" }

func (j *overdueSweepJob) Run(ctx context.Context) error {
	overdue, err := j.lending.SweepOverdue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("sweep overdue orders: %w", err)
	}
	j.metrics.SetOverdueOrders(len(overdue))
	logCtx := j.logg.WithFields(ctx, map[string]any{"overdue_count": len(overdue)})
	j.logg.Info(logCtx, "overdue sweep complete")
	return nil
}
