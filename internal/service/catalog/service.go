// Package catalog manages the customer registry and the packaging price
// table. Price changes affect only future records; stored sales keep the
// rate snapshot they were created with.
package catalog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

// Service exposes registry and pricing operations over the configured store.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a catalog service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Customers lists registry entries, optionally for one village.
func (s *Service) Customers(ctx context.Context, village string) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx, village)
}

// AddCustomer registers a (village, name) pair.
func (s *Service) AddCustomer(ctx context.Context, village, name string) (models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Customer{}, &models.ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}
	if village == "" {
		return models.Customer{}, &models.ValidationError{Field: "village", Reason: "must not be empty"}
	}

	customer := models.Customer{Village: village, Name: name, AddedOn: s.now().UTC()}
	if err := s.store.AddCustomer(ctx, customer); err != nil {
		return models.Customer{}, err
	}

	s.logger.Info("customer added", zap.String("village", village), zap.String("customer", name))
	return customer, nil
}

// DeleteCustomer removes a registry entry.
func (s *Service) DeleteCustomer(ctx context.Context, village, name string) error {
	if err := s.store.DeleteCustomer(ctx, village, strings.TrimSpace(name)); err != nil {
		return err
	}
	s.logger.Info("customer removed", zap.String("village", village), zap.String("customer", name))
	return nil
}

// Pricing returns the current price table.
func (s *Service) Pricing(ctx context.Context) ([]models.PricingEntry, error) {
	return s.store.ListPricing(ctx)
}

// SetRate updates the price for a packet size. Existing sales records are
// untouched; only future defaults change.
func (s *Service) SetRate(ctx context.Context, pkg models.Packaging, rate float64) (models.PricingEntry, error) {
	if !pkg.Valid() {
		return models.PricingEntry{}, &models.ValidationError{Field: "package", Reason: "unknown packaging " + string(pkg)}
	}
	if rate < 0 {
		return models.PricingEntry{}, &models.ValidationError{Field: "rate", Reason: "must not be negative"}
	}

	entry := models.PricingEntry{Package: pkg, Rate: rate, UpdatedOn: s.now().UTC()}
	if err := s.store.SetRate(ctx, entry); err != nil {
		return models.PricingEntry{}, err
	}

	s.logger.Info("rate updated", zap.String("package", string(pkg)), zap.Float64("rate", rate))
	return entry, nil
}
