package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// registryStore is an in-memory repository.Store covering the catalog paths.
// The sales methods are stubs; the catalog service never touches them.
type registryStore struct {
	customers []models.Customer
	pricing   []models.PricingEntry
}

func (r *registryStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	return nil, nil
}

func (r *registryStore) GetSale(ctx context.Context, id string) (models.SaleRecord, error) {
	return models.SaleRecord{}, models.ErrNotFound
}

func (r *registryStore) AppendSale(ctx context.Context, sale models.SaleRecord) error { return nil }

func (r *registryStore) UpdateSale(ctx context.Context, sale models.SaleRecord) error { return nil }

func (r *registryStore) DeleteSale(ctx context.Context, id string) error { return nil }

func (r *registryStore) ListCustomers(ctx context.Context, village string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.customers {
		if village == "" || c.Village == village {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *registryStore) AddCustomer(ctx context.Context, customer models.Customer) error {
	for _, c := range r.customers {
		if c.Village == customer.Village && c.Name == customer.Name {
			return &models.ValidationError{Field: "customer", Reason: "already registered in " + customer.Village}
		}
	}
	r.customers = append(r.customers, customer)
	return nil
}

func (r *registryStore) DeleteCustomer(ctx context.Context, village, name string) error {
	for i, c := range r.customers {
		if c.Village == village && c.Name == name {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("customer %s/%s: %w", village, name, models.ErrNotFound)
}

func (r *registryStore) ListPricing(ctx context.Context) ([]models.PricingEntry, error) {
	return append([]models.PricingEntry(nil), r.pricing...), nil
}

func (r *registryStore) SetRate(ctx context.Context, entry models.PricingEntry) error {
	for i := range r.pricing {
		if r.pricing[i].Package == entry.Package {
			r.pricing[i] = entry
			return nil
		}
	}
	r.pricing = append(r.pricing, entry)
	return nil
}

func (r *registryStore) SeedDefaults(ctx context.Context, prices models.PriceList) error { return nil }

func newCatalogService(store *registryStore) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestAddCustomerTrimsAndStores(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	customer, err := svc.AddCustomer(context.Background(), "Bardwadi", "  Sanjay Jadhav  ")
	require.NoError(t, err)

	assert.Equal(t, "Sanjay Jadhav", customer.Name)
	assert.Equal(t, "Bardwadi", customer.Village)
	assert.False(t, customer.AddedOn.IsZero())
	require.Len(t, store.customers, 1)
}

func TestAddCustomerRejectsBlankFields(t *testing.T) {
	svc := newCatalogService(&registryStore{})

	_, err := svc.AddCustomer(context.Background(), "Bardwadi", "   ")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = svc.AddCustomer(context.Background(), "", "Sanjay Jadhav")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestAddCustomerDuplicateSurfacesValidation(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	_, err := svc.AddCustomer(context.Background(), "Bardwadi", "Sanjay Jadhav")
	require.NoError(t, err)

	_, err = svc.AddCustomer(context.Background(), "Bardwadi", "Sanjay Jadhav")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Len(t, store.customers, 1)
}

func TestCustomersVillageFilter(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	for _, pair := range [][2]string{
		{"Bardwadi", "Sanjay Jadhav"},
		{"Harali KH", "Balaji Naik"},
	} {
		_, err := svc.AddCustomer(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
	}

	all, err := svc.Customers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	harali, err := svc.Customers(context.Background(), "Harali KH")
	require.NoError(t, err)
	require.Len(t, harali, 1)
	assert.Equal(t, "Balaji Naik", harali[0].Name)
}

func TestDeleteCustomer(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	_, err := svc.AddCustomer(context.Background(), "Bardwadi", "Sanjay Jadhav")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(context.Background(), "Bardwadi", "Sanjay Jadhav"))
	assert.Empty(t, store.customers)

	err = svc.DeleteCustomer(context.Background(), "Bardwadi", "Sanjay Jadhav")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetRateValidation(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	entry, err := svc.SetRate(context.Background(), models.Pack500g, 300)
	require.NoError(t, err)
	assert.Equal(t, models.Pack500g, entry.Package)
	assert.Equal(t, 300.0, entry.Rate)
	require.Len(t, store.pricing, 1)

	_, err = svc.SetRate(context.Background(), "2kg", 100)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = svc.SetRate(context.Background(), models.Pack100g, -5)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Len(t, store.pricing, 1, "rejected updates must not write")
}

func TestSetRateOverwritesExistingEntry(t *testing.T) {
	store := &registryStore{}
	svc := newCatalogService(store)

	_, err := svc.SetRate(context.Background(), models.Pack1kg, 520)
	require.NoError(t, err)
	_, err = svc.SetRate(context.Background(), models.Pack1kg, 600)
	require.NoError(t, err)

	require.Len(t, store.pricing, 1)
	assert.Equal(t, 600.0, store.pricing[0].Rate)
}
