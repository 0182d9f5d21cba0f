// Package mongodb persists the ledger in MongoDB, one collection per sheet.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

const (
	salesCollection    = "sales"
	customerCollection = "customers"
	pricingCollection  = "pricing"
)

// Store implements repository.Store on top of MongoDB.
type Store struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB, verifies the connection and ensures the indexes
// the ledger relies on.
func New(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, dbName: dbName}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	db := s.client.Database(s.dbName)

	_, err := db.Collection(salesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sale_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "village", Value: 1}}},
		{Keys: bson.D{{Key: "customer_name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create sales indexes: %w", err)
	}

	_, err = db.Collection(customerCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "village", Value: 1}, {Key: "customer_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create customer index: %w", err)
	}

	_, err = db.Collection(pricingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "package", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create pricing index: %w", err)
	}
	return nil
}

// ListSales returns every sale, newest first.
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	coll := s.collection(salesCollection)

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, repository.Unavailable("find sales", err)
	}

	var sales []models.SaleRecord
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, repository.Unavailable("decode sales", err)
	}
	return sales, nil
}

// GetSale returns the record with the given ID.
func (s *Store) GetSale(ctx context.Context, id string) (models.SaleRecord, error) {
	var sale models.SaleRecord
	err := s.collection(salesCollection).FindOne(ctx, bson.D{{Key: "sale_id", Value: id}}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SaleRecord{}, fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.SaleRecord{}, repository.Unavailable("find sale", err)
	}
	return sale, nil
}

// AppendSale inserts a new sale document.
func (s *Store) AppendSale(ctx context.Context, sale models.SaleRecord) error {
	if _, err := s.collection(salesCollection).InsertOne(ctx, sale); err != nil {
		return repository.Unavailable("insert sale", err)
	}
	return nil
}

// UpdateSale replaces the document holding the record's ID.
func (s *Store) UpdateSale(ctx context.Context, sale models.SaleRecord) error {
	result, err := s.collection(salesCollection).ReplaceOne(ctx, bson.D{{Key: "sale_id", Value: sale.ID}}, sale)
	if err != nil {
		return repository.Unavailable("replace sale", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("sale %s: %w", sale.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteSale removes the document holding the given ID.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	result, err := s.collection(salesCollection).DeleteOne(ctx, bson.D{{Key: "sale_id", Value: id}})
	if err != nil {
		return repository.Unavailable("delete sale", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListCustomers returns registry entries, optionally restricted to one village.
func (s *Store) ListCustomers(ctx context.Context, village string) ([]models.Customer, error) {
	filter := bson.D{}
	if village != "" {
		filter = bson.D{{Key: "village", Value: village}}
	}

	cursor, err := s.collection(customerCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "village", Value: 1}, {Key: "customer_name", Value: 1}}))
	if err != nil {
		return nil, repository.Unavailable("find customers", err)
	}

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, repository.Unavailable("decode customers", err)
	}
	return customers, nil
}

// AddCustomer inserts a registry entry. The unique index rejects duplicates.
func (s *Store) AddCustomer(ctx context.Context, customer models.Customer) error {
	_, err := s.collection(customerCollection).InsertOne(ctx, customer)
	if mongo.IsDuplicateKeyError(err) {
		return &models.ValidationError{Field: "customer", Reason: "already registered in " + customer.Village}
	}
	if err != nil {
		return repository.Unavailable("insert customer", err)
	}
	return nil
}

// DeleteCustomer removes a registry entry by its (village, name) key.
func (s *Store) DeleteCustomer(ctx context.Context, village, name string) error {
	result, err := s.collection(customerCollection).DeleteOne(ctx, bson.D{
		{Key: "village", Value: village},
		{Key: "customer_name", Value: name},
	})
	if err != nil {
		return repository.Unavailable("delete customer", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("customer %s/%s: %w", village, name, models.ErrNotFound)
	}
	return nil
}

// ListPricing returns the current pricing table.
func (s *Store) ListPricing(ctx context.Context) ([]models.PricingEntry, error) {
	cursor, err := s.collection(pricingCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, repository.Unavailable("find pricing", err)
	}

	var entries []models.PricingEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, repository.Unavailable("decode pricing", err)
	}
	return entries, nil
}

// SetRate upserts the pricing document for the entry's package.
func (s *Store) SetRate(ctx context.Context, entry models.PricingEntry) error {
	_, err := s.collection(pricingCollection).UpdateOne(ctx,
		bson.D{{Key: "package", Value: entry.Package}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rate", Value: entry.Rate},
			{Key: "updated_on", Value: entry.UpdatedOn},
		}}},
		options.Update().SetUpsert(true))
	if err != nil {
		return repository.Unavailable("upsert pricing", err)
	}
	return nil
}

// SeedDefaults inserts pricing documents for packages that have none yet.
func (s *Store) SeedDefaults(ctx context.Context, prices models.PriceList) error {
	coll := s.collection(pricingCollection)
	for _, pkg := range models.Packagings {
		rate, ok := prices.Rate(pkg)
		if !ok {
			continue
		}
		_, err := coll.UpdateOne(ctx,
			bson.D{{Key: "package", Value: pkg}},
			bson.D{{Key: "$setOnInsert", Value: bson.D{
				{Key: "package", Value: pkg},
				{Key: "rate", Value: rate},
			}}},
			options.Update().SetUpsert(true))
		if err != nil {
			return repository.Unavailable("seed pricing", err)
		}
	}
	return nil
}

// Close disconnects the MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}
