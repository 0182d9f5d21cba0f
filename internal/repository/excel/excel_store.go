// Package excel persists the ledger in a local .xlsx workbook, mirroring the
// column layout of the Google Sheets backend.
package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

const (
	salesSheet    = "Sales"
	customerSheet = "Customers"
	pricingSheet  = "Pricing"
)

// Store implements repository.Store against a workbook on disk. Every
// operation opens the file, mutates it and saves it back, so the workbook is
// never held open between calls.
type Store struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// New builds an Excel file backed store rooted at path.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// ListSales reads every data row of the Sales sheet.
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readSheet(salesSheet)
	if err != nil {
		return nil, err
	}

	sales := make([]models.SaleRecord, 0, len(rows))
	for _, row := range rows {
		sale, err := models.SaleFromRow(row)
		if err != nil {
			s.logger.Debug("skip malformed sales row", zap.Error(err))
			continue
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// GetSale returns the record with the given ID.
func (s *Store) GetSale(ctx context.Context, id string) (models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, _, err := s.findSale(id)
	return sale, err
}

// AppendSale writes the record below the last Sales row.
func (s *Store) AppendSale(ctx context.Context, sale models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withWorkbook(func(f *excelize.File) error {
		return appendRow(f, salesSheet, sale.Row())
	})
}

// UpdateSale overwrites the row holding the record's ID.
func (s *Store) UpdateSale(ctx context.Context, sale models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rowNum, err := s.findSale(sale.ID)
	if err != nil {
		return err
	}
	return s.withWorkbook(func(f *excelize.File) error {
		return setRow(f, salesSheet, rowNum, sale.Row())
	})
}

// DeleteSale removes the row holding the given ID.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rowNum, err := s.findSale(id)
	if err != nil {
		return err
	}
	return s.withWorkbook(func(f *excelize.File) error {
		if err := f.RemoveRow(salesSheet, rowNum); err != nil {
			return fmt.Errorf("remove sales row %d: %w", rowNum, err)
		}
		return nil
	})
}

// ListCustomers reads the registry, optionally restricted to one village.
func (s *Store) ListCustomers(ctx context.Context, village string) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listCustomers(village)
}

// AddCustomer appends a registry row. Duplicate (village, name) pairs are rejected.
func (s *Store) AddCustomer(ctx context.Context, customer models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.listCustomers(customer.Village)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, customer.Name) {
			return &models.ValidationError{Field: "customer", Reason: "already registered in " + customer.Village}
		}
	}
	return s.withWorkbook(func(f *excelize.File) error {
		return appendRow(f, customerSheet, customer.Row())
	})
}

// DeleteCustomer removes a registry row by its (village, name) key.
func (s *Store) DeleteCustomer(ctx context.Context, village, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readSheet(customerSheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		customer, err := models.CustomerFromRow(row)
		if err != nil {
			continue
		}
		if customer.Village == village && strings.EqualFold(customer.Name, name) {
			rowNum := i + 2
			return s.withWorkbook(func(f *excelize.File) error {
				if err := f.RemoveRow(customerSheet, rowNum); err != nil {
					return fmt.Errorf("remove customer row %d: %w", rowNum, err)
				}
				return nil
			})
		}
	}
	return fmt.Errorf("customer %s/%s: %w", village, name, models.ErrNotFound)
}

// ListPricing reads the current pricing table.
func (s *Store) ListPricing(ctx context.Context) ([]models.PricingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listPricing()
}

// SetRate updates the row for the entry's package, appending it when absent.
func (s *Store) SetRate(ctx context.Context, entry models.PricingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readSheet(pricingSheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		current, err := models.PricingFromRow(row)
		if err != nil {
			continue
		}
		if current.Package == entry.Package {
			rowNum := i + 2
			return s.withWorkbook(func(f *excelize.File) error {
				return setRow(f, pricingSheet, rowNum, entry.Row())
			})
		}
	}
	return s.withWorkbook(func(f *excelize.File) error {
		return appendRow(f, pricingSheet, entry.Row())
	})
}

// SeedDefaults creates the workbook with headers when missing and adds
// pricing rows for packages that have none yet.
func (s *Store) SeedDefaults(ctx context.Context, prices models.PriceList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := s.createWorkbook(); err != nil {
			return err
		}
		s.logger.Info("created new workbook", zap.String("path", s.path))
	}

	entries, err := s.listPricing()
	if err != nil {
		return err
	}
	seeded := make(map[models.Packaging]bool, len(entries))
	for _, entry := range entries {
		seeded[entry.Package] = true
	}

	return s.withWorkbook(func(f *excelize.File) error {
		for _, pkg := range models.Packagings {
			rate, ok := prices.Rate(pkg)
			if !ok || seeded[pkg] {
				continue
			}
			if err := appendRow(f, pricingSheet, models.PricingEntry{Package: pkg, Rate: rate}.Row()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) listCustomers(village string) ([]models.Customer, error) {
	rows, err := s.readSheet(customerSheet)
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(rows))
	for _, row := range rows {
		customer, err := models.CustomerFromRow(row)
		if err != nil {
			s.logger.Debug("skip malformed customer row", zap.Error(err))
			continue
		}
		if village != "" && customer.Village != village {
			continue
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (s *Store) listPricing() ([]models.PricingEntry, error) {
	rows, err := s.readSheet(pricingSheet)
	if err != nil {
		return nil, err
	}

	entries := make([]models.PricingEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := models.PricingFromRow(row)
		if err != nil {
			s.logger.Debug("skip malformed pricing row", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) findSale(id string) (models.SaleRecord, int, error) {
	rows, err := s.readSheet(salesSheet)
	if err != nil {
		return models.SaleRecord{}, 0, err
	}
	for i, row := range rows {
		if len(row) == 0 || models.CellString(row[0]) != id {
			continue
		}
		sale, err := models.SaleFromRow(row)
		if err != nil {
			return models.SaleRecord{}, 0, fmt.Errorf("parse sales row for %s: %w", id, err)
		}
		// Data rows start on workbook row 2, below the header.
		return sale, i + 2, nil
	}
	return models.SaleRecord{}, 0, fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
}

// readSheet returns the data rows of a sheet, header excluded, as generic
// cells so the shared row codec applies.
func (s *Store) readSheet(sheet string) ([][]interface{}, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, repository.Unavailable("open workbook", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("close workbook failed", zap.Error(err))
		}
	}()

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, repository.Unavailable("read sheet "+sheet, err)
	}
	if len(raw) <= 1 {
		return nil, nil
	}

	rows := make([][]interface{}, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make([]interface{}, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// withWorkbook opens the file, applies fn and saves, keeping the workbook
// closed between operations.
func (s *Store) withWorkbook(fn func(*excelize.File) error) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return repository.Unavailable("open workbook", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("close workbook failed", zap.Error(err))
		}
	}()

	if err := fn(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return repository.Unavailable("save workbook", err)
	}
	return nil
}

func (s *Store) createWorkbook() error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headers := map[string][]string{
		salesSheet:    models.SaleColumns,
		customerSheet: models.CustomerColumns,
		pricingSheet:  models.PricingColumns,
	}
	for _, sheet := range []string{salesSheet, customerSheet, pricingSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		header := make([]interface{}, len(headers[sheet]))
		for i, col := range headers[sheet] {
			header[i] = col
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return repository.Unavailable("create workbook", err)
	}
	return nil
}

func appendRow(f *excelize.File, sheet string, values []interface{}) error {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return setRow(f, sheet, len(raw)+1, values)
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
