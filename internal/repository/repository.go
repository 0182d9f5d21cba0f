// Package repository defines the row-store contract shared by the Google
// Sheets, Excel file and MongoDB backends.
package repository

import (
	"context"
	"fmt"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// Store persists sales records, the customer registry and the pricing table.
// Every operation is a single synchronous round-trip; callers treat it as
// atomic and surface failures unchanged.
type Store interface {
	ListSales(ctx context.Context) ([]models.SaleRecord, error)
	GetSale(ctx context.Context, id string) (models.SaleRecord, error)
	AppendSale(ctx context.Context, sale models.SaleRecord) error
	UpdateSale(ctx context.Context, sale models.SaleRecord) error
	DeleteSale(ctx context.Context, id string) error

	ListCustomers(ctx context.Context, village string) ([]models.Customer, error)
	AddCustomer(ctx context.Context, customer models.Customer) error
	DeleteCustomer(ctx context.Context, village, name string) error

	ListPricing(ctx context.Context) ([]models.PricingEntry, error)
	SetRate(ctx context.Context, entry models.PricingEntry) error

	// SeedDefaults provisions headers and default pricing on a fresh store
	// without overwriting existing entries.
	SeedDefaults(ctx context.Context, prices models.PriceList) error
}

// Unavailable wraps a backend transport failure so callers can match it
// against models.ErrStoreUnavailable while keeping the cause.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
