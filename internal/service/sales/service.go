// Package sales owns the sale record lifecycle: deriving records from form
// input, validating their invariants and pushing them through the row store.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

// Service orchestrates record building against the configured store.
type Service struct {
	store  repository.Store
	brand  string
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a sales service instance.
func NewService(store repository.Store, brand string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		brand:  brand,
		logger: logger,
		now:    time.Now,
	}
}

// Create builds a record from form input using the current pricing snapshot,
// persists it and registers the customer when unseen.
func (s *Service) Create(ctx context.Context, input RecordInput) (models.SaleRecord, error) {
	if input.Brand == "" {
		input.Brand = s.brand
	}

	prices, err := s.priceSnapshot(ctx)
	if err != nil {
		return models.SaleRecord{}, err
	}

	record, err := BuildRecord(input, prices, s.now().UTC())
	if err != nil {
		return models.SaleRecord{}, err
	}
	record.ID = uuid.NewString()

	if err := s.store.AppendSale(ctx, record); err != nil {
		return models.SaleRecord{}, fmt.Errorf("persist sale: %w", err)
	}

	s.registerCustomer(ctx, record)

	s.logger.Info("sale recorded",
		zap.String("sale_id", record.ID),
		zap.String("village", record.Village),
		zap.String("customer", record.CustomerName),
		zap.Float64("total", record.TotalAmount))
	return record, nil
}

// Revise applies a partial update to an existing record and persists the result.
func (s *Service) Revise(ctx context.Context, id string, changes Changes) (models.SaleRecord, error) {
	existing, err := s.store.GetSale(ctx, id)
	if err != nil {
		return models.SaleRecord{}, err
	}

	prices, err := s.priceSnapshot(ctx)
	if err != nil {
		return models.SaleRecord{}, err
	}

	revised, err := ReviseRecord(existing, changes, prices, s.now().UTC())
	if err != nil {
		return models.SaleRecord{}, err
	}

	if err := s.store.UpdateSale(ctx, revised); err != nil {
		return models.SaleRecord{}, fmt.Errorf("persist revision: %w", err)
	}

	s.registerCustomer(ctx, revised)

	s.logger.Info("sale revised", zap.String("sale_id", revised.ID))
	return revised, nil
}

// Delete removes a record from the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sale deleted", zap.String("sale_id", id))
	return nil
}

// Get fetches one record by ID.
func (s *Service) Get(ctx context.Context, id string) (models.SaleRecord, error) {
	return s.store.GetSale(ctx, id)
}

// List returns every record, optionally restricted to one village.
func (s *Service) List(ctx context.Context, village string) ([]models.SaleRecord, error) {
	records, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	if village == "" {
		return records, nil
	}

	filtered := records[:0:0]
	for _, record := range records {
		if record.Village == village {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// priceSnapshot reads the pricing table fresh on every call so defaults
// always reflect the operator's latest settings.
func (s *Service) priceSnapshot(ctx context.Context) (models.PriceList, error) {
	entries, err := s.store.ListPricing(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing table: %w", err)
	}

	prices := make(models.PriceList, len(entries))
	for _, entry := range entries {
		prices[entry.Package] = entry.Rate
	}
	return prices, nil
}

// registerCustomer adds an unseen (village, customer) pair to the registry.
// Registration is best effort: a duplicate or store hiccup never fails the sale.
func (s *Service) registerCustomer(ctx context.Context, record models.SaleRecord) {
	err := s.store.AddCustomer(ctx, models.Customer{
		Village: record.Village,
		Name:    record.CustomerName,
		AddedOn: s.now().UTC(),
	})
	if err == nil {
		s.logger.Info("new customer registered",
			zap.String("village", record.Village),
			zap.String("customer", record.CustomerName))
		return
	}
	if !models.IsValidation(err) {
		s.logger.Warn("customer registration failed", zap.Error(err))
	}
}
