package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// fakeStore is an in-memory repository.Store for service tests.
type fakeStore struct {
	sales     []models.SaleRecord
	customers []models.Customer
	pricing   []models.PricingEntry
	failWith  error
}

func newFakeStore() *fakeStore {
	store := &fakeStore{}
	for _, pkg := range models.Packagings {
		rate, _ := models.DefaultPriceList().Rate(pkg)
		store.pricing = append(store.pricing, models.PricingEntry{Package: pkg, Rate: rate})
	}
	return store
}

func (f *fakeStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.SaleRecord(nil), f.sales...), nil
}

func (f *fakeStore) GetSale(ctx context.Context, id string) (models.SaleRecord, error) {
	if f.failWith != nil {
		return models.SaleRecord{}, f.failWith
	}
	for _, sale := range f.sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return models.SaleRecord{}, fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
}

func (f *fakeStore) AppendSale(ctx context.Context, sale models.SaleRecord) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeStore) UpdateSale(ctx context.Context, sale models.SaleRecord) error {
	for i := range f.sales {
		if f.sales[i].ID == sale.ID {
			f.sales[i] = sale
			return nil
		}
	}
	return fmt.Errorf("sale %s: %w", sale.ID, models.ErrNotFound)
}

func (f *fakeStore) DeleteSale(ctx context.Context, id string) error {
	for i := range f.sales {
		if f.sales[i].ID == id {
			f.sales = append(f.sales[:i], f.sales[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
}

func (f *fakeStore) ListCustomers(ctx context.Context, village string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		if village == "" || c.Village == village {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) AddCustomer(ctx context.Context, customer models.Customer) error {
	for _, c := range f.customers {
		if c.Village == customer.Village && c.Name == customer.Name {
			return &models.ValidationError{Field: "customer", Reason: "already registered in " + customer.Village}
		}
	}
	f.customers = append(f.customers, customer)
	return nil
}

func (f *fakeStore) DeleteCustomer(ctx context.Context, village, name string) error {
	for i, c := range f.customers {
		if c.Village == village && c.Name == name {
			f.customers = append(f.customers[:i], f.customers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("customer %s/%s: %w", village, name, models.ErrNotFound)
}

func (f *fakeStore) ListPricing(ctx context.Context) ([]models.PricingEntry, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.PricingEntry(nil), f.pricing...), nil
}

func (f *fakeStore) SetRate(ctx context.Context, entry models.PricingEntry) error {
	for i := range f.pricing {
		if f.pricing[i].Package == entry.Package {
			f.pricing[i] = entry
			return nil
		}
	}
	f.pricing = append(f.pricing, entry)
	return nil
}

func (f *fakeStore) SeedDefaults(ctx context.Context, prices models.PriceList) error {
	return nil
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, "GOLD Tea Powder", nil)
	svc.now = func() time.Time { return testClock }
	return svc
}

func TestServiceCreatePersistsAndRegistersCustomer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	record, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "GOLD Tea Powder", record.Brand)
	require.Len(t, store.sales, 1)
	assert.Equal(t, record, store.sales[0])

	require.Len(t, store.customers, 1)
	assert.Equal(t, "vairgwadi", store.customers[0].Village)
	assert.Equal(t, "Rajesh Kumar", store.customers[0].Name)

	// A repeat sale by the same customer must not duplicate the registry entry.
	_, err = svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, store.customers, 1)
}

func TestServiceCreateUsesCurrentPricingSnapshot(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	input := validInput()
	input.Packaging = models.Pack1kg
	input.Quantity = 1

	before, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 520.0, before.Rate)

	// Raise the 1kg price; already-created records keep their snapshot while
	// new ones pick up the new rate.
	require.NoError(t, store.SetRate(context.Background(), models.PricingEntry{Package: models.Pack1kg, Rate: 600}))

	after, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 600.0, after.Rate)

	stored, err := store.GetSale(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, 520.0, stored.Rate)
	assert.Equal(t, 520.0, stored.TotalAmount)
}

func TestServiceCreateRejectsInvalidInputWithoutWriting(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	input := validInput()
	input.Quantity = -1

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, store.sales, "failed validation must not touch the store")
	assert.Empty(t, store.customers)
}

func TestServiceCreateSurfacesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failWith = fmt.Errorf("read pricing: %w", models.ErrStoreUnavailable)
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestServiceRevisePersists(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	record, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	quantity := 5
	revised, err := svc.Revise(context.Background(), record.ID, Changes{Quantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 700.0, revised.TotalAmount)

	stored, err := store.GetSale(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, revised, stored)
}

func TestServiceReviseUnknownID(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Revise(context.Background(), "missing", Changes{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServiceDeleteRemovesRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	record, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), record.ID))
	assert.Empty(t, store.sales)

	err = svc.Delete(context.Background(), record.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServiceListFiltersByVillage(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	first := validInput()
	_, err := svc.Create(context.Background(), first)
	require.NoError(t, err)

	second := validInput()
	second.Village = "Bardwadi"
	second.CustomerName = "Sanjay Jadhav"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bardwadi, err := svc.List(context.Background(), "Bardwadi")
	require.NoError(t, err)
	require.Len(t, bardwadi, 1)
	assert.Equal(t, "Sanjay Jadhav", bardwadi[0].CustomerName)
}
