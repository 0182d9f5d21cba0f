package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/config"
	"github.com/smahadik/goldtea/internal/service/reporting"
	"github.com/smahadik/goldtea/pkg/clients/webhook"
)

// Scheduler pushes the nightly sales snapshot.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	exporter     webhook.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The exporter may be nil when
// no webhook is configured; snapshots are then only logged.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, exporter webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, scheduler falls back to local time", zap.String("timezone", cfg.Reporting.Timezone))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		exporter:     exporter,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailySnapshot); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailySnapshot() {
	s.logger.Info("generating daily snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := s.reportingSvc.DailySnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to generate daily snapshot", zap.Error(err))
		return
	}

	s.logger.Info("daily snapshot ready",
		zap.Float64("total_sales", snapshot.Dashboard.TotalSales),
		zap.Int("orders", snapshot.Dashboard.TotalOrders),
		zap.Float64("pending", snapshot.Pending))

	if s.exporter == nil {
		return
	}

	if err := s.exporter.PostSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to export daily snapshot", zap.Error(err))
	} else {
		s.logger.Info("daily snapshot exported")
	}
}
