// Package reporting computes report views over the sales ledger: dashboard
// metrics, calendar summaries, rollups and the pending-payments view. The
// aggregation itself is pure; Service only loads records and delegates.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

// Service exposes the aggregation engine over the configured store. Every
// report is recomputed from the full record collection on demand.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reporting service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Dashboard computes the headline metrics for a period.
func (s *Service) Dashboard(ctx context.Context, period Period, scopePending bool) (models.Dashboard, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	return ComputeDashboard(records, period, scopePending), nil
}

// DailySummary groups the period's records by calendar date.
func (s *Service) DailySummary(ctx context.Context, period Period) ([]models.BucketSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeDailySummary(records, period), nil
}

// WeeklySummary groups the period's records by ISO week.
func (s *Service) WeeklySummary(ctx context.Context, period Period) ([]models.BucketSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeWeeklySummary(records, period), nil
}

// MonthlySummary groups the period's records by year-month.
func (s *Service) MonthlySummary(ctx context.Context, period Period) ([]models.BucketSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMonthlySummary(records, period), nil
}

// ByCustomer rolls up the period's records per customer.
func (s *Service) ByCustomer(ctx context.Context, period Period) ([]models.Rollup, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeByCustomer(records, period), nil
}

// ByVillage rolls up the period's records per village.
func (s *Service) ByVillage(ctx context.Context, period Period) ([]models.Rollup, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeByVillage(records, period), nil
}

// ByProduct rolls up the period's records per tea type and packaging.
func (s *Service) ByProduct(ctx context.Context, period Period) ([]models.Rollup, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeByProduct(records, period), nil
}

// Pending lists outstanding balances, optionally for one village.
func (s *Service) Pending(ctx context.Context, village string) (models.PendingReport, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.PendingReport{}, err
	}
	return ComputePending(records, village), nil
}

// Snapshot is the nightly report pushed by the scheduler.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Dashboard   models.Dashboard `json:"dashboard"`
	Villages    []models.Rollup  `json:"villages"`
	Pending     float64          `json:"pending"`
}

// DailySnapshot bundles today's dashboard, the village rollup and the
// all-time pending total into one export payload.
func (s *Service) DailySnapshot(ctx context.Context) (Snapshot, error) {
	records, err := s.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now().UTC()
	today := Today(now)
	pending := ComputePending(records, "")

	return Snapshot{
		GeneratedAt: now,
		Dashboard:   ComputeDashboard(records, today, false),
		Villages:    ComputeByVillage(records, today),
		Pending:     pending.GrandTotal,
	}, nil
}

func (s *Service) load(ctx context.Context) ([]models.SaleRecord, error) {
	records, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales records: %w", err)
	}
	return records, nil
}
