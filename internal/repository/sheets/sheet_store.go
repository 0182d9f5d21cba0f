// Package sheets persists the ledger in a Google Sheets spreadsheet using the
// official Sheets v4 API.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/smahadik/goldtea/internal/config"
	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
)

const (
	salesSheet    = "Sales"
	customerSheet = "Customers"
	pricingSheet  = "Pricing"

	salesRange    = salesSheet + "!A2:P"
	customerRange = customerSheet + "!A2:C"
	pricingRange  = pricingSheet + "!A2:C"
)

// Store implements repository.Store on top of a Google spreadsheet.
type Store struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetIDs      map[string]int64
	logger        *zap.Logger
}

// New builds a Google Sheets backed store and resolves the numeric sheet IDs
// needed for row deletion.
func New(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	meta, err := service.Spreadsheets.Get(cfg.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, repository.Unavailable("load spreadsheet metadata", err)
	}

	ids := make(map[string]int64, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}

	return &Store{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetIDs:      ids,
		logger:        logger,
	}, nil
}

// ListSales reads every row of the Sales sheet. Rows that fail to parse are
// skipped with a debug log rather than failing the whole listing.
func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	rows, err := s.readRange(ctx, salesRange)
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
	sale, _, err := s.findSale(ctx, id)
	return sale, err
}

// AppendSale appends the record as a new row of the Sales sheet.
func (s *Store) AppendSale(ctx context.Context, sale models.SaleRecord) error {
	return s.appendRow(ctx, salesSheet+"!A:P", sale.Row())
}

// UpdateSale overwrites the row holding the record's ID.
func (s *Store) UpdateSale(ctx context.Context, sale models.SaleRecord) error {
	_, rowNum, err := s.findSale(ctx, sale.ID)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s!A%d:P%d", salesSheet, rowNum, rowNum)
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{sale.Row()}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, target, payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return repository.Unavailable("update sales row", err)
	}

	s.logger.Debug("sales row updated", zap.String("sale_id", sale.ID), zap.Int("row", rowNum))
	return nil
}

// DeleteSale removes the row holding the given ID.
func (s *Store) DeleteSale(ctx context.Context, id string) error {
	_, rowNum, err := s.findSale(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteRow(ctx, salesSheet, rowNum)
}

// ListCustomers reads the registry, optionally restricted to one village.
func (s *Store) ListCustomers(ctx context.Context, village string) ([]models.Customer, error) {
	rows, err := s.readRange(ctx, customerRange)
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

// AddCustomer appends a registry row. Duplicate (village, name) pairs are rejected.
func (s *Store) AddCustomer(ctx context.Context, customer models.Customer) error {
	existing, err := s.ListCustomers(ctx, customer.Village)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, customer.Name) {
			return &models.ValidationError{Field: "customer", Reason: "already registered in " + customer.Village}
		}
	}
	return s.appendRow(ctx, customerSheet+"!A:C", customer.Row())
}

// DeleteCustomer removes a registry row by its (village, name) key.
func (s *Store) DeleteCustomer(ctx context.Context, village, name string) error {
	rows, err := s.readRange(ctx, customerRange)
	if err != nil {
		return err
	}

	for i, row := range rows {
		customer, err := models.CustomerFromRow(row)
		if err != nil {
			continue
		}
		if customer.Village == village && strings.EqualFold(customer.Name, name) {
			return s.deleteRow(ctx, customerSheet, i+2)
		}
	}
	return fmt.Errorf("customer %s/%s: %w", village, name, models.ErrNotFound)
}

// ListPricing reads the current pricing table.
func (s *Store) ListPricing(ctx context.Context) ([]models.PricingEntry, error) {
	rows, err := s.readRange(ctx, pricingRange)
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

// SetRate updates the row for the entry's package, appending it when absent.
func (s *Store) SetRate(ctx context.Context, entry models.PricingEntry) error {
	rows, err := s.readRange(ctx, pricingRange)
	if err != nil {
		return err
	}

	for i, row := range rows {
		current, err := models.PricingFromRow(row)
		if err != nil {
			continue
		}
		if current.Package == entry.Package {
			target := fmt.Sprintf("%s!A%d:C%d", pricingSheet, i+2, i+2)
			payload := &sheetsapi.ValueRange{Values: [][]interface{}{entry.Row()}}
			_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, target, payload).
				ValueInputOption("USER_ENTERED").
				Context(ctx).
				Do()
			if err != nil {
				return repository.Unavailable("update pricing row", err)
			}
			return nil
		}
	}
	return s.appendRow(ctx, pricingSheet+"!A:C", entry.Row())
}

// SeedDefaults writes the header rows when the spreadsheet is blank and adds
// pricing rows for packages that have none yet.
func (s *Store) SeedDefaults(ctx context.Context, prices models.PriceList) error {
	headers := map[string][]string{
		salesSheet:    models.SaleColumns,
		customerSheet: models.CustomerColumns,
		pricingSheet:  models.PricingColumns,
	}
	for sheet, columns := range headers {
		existing, err := s.readRange(ctx, sheet+"!A1:A1")
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = col
		}
		payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
		_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, sheet+"!A1", payload).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return repository.Unavailable("write sheet header", err)
		}
	}

	entries, err := s.ListPricing(ctx)
	if err != nil {
		return err
	}
	seeded := make(map[models.Packaging]bool, len(entries))
	for _, entry := range entries {
		seeded[entry.Package] = true
	}
	for _, pkg := range models.Packagings {
		rate, ok := prices.Rate(pkg)
		if !ok || seeded[pkg] {
			continue
		}
		if err := s.appendRow(ctx, pricingSheet+"!A:C", models.PricingEntry{Package: pkg, Rate: rate}.Row()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) findSale(ctx context.Context, id string) (models.SaleRecord, int, error) {
	rows, err := s.readRange(ctx, salesRange)
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
		// Data rows start on sheet row 2, below the header.
		return sale, i + 2, nil
	}
	return models.SaleRecord{}, 0, fmt.Errorf("sale %s: %w", id, models.ErrNotFound)
}

func (s *Store) readRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, repository.Unavailable("read range "+sheetRange, err)
	}
	return resp.Values, nil
}

func (s *Store) appendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return repository.Unavailable("append row into range "+sheetRange, err)
	}

	s.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

func (s *Store) deleteRow(ctx context.Context, sheet string, rowNum int) error {
	sheetID, ok := s.sheetIDs[sheet]
	if !ok {
		return fmt.Errorf("sheet %s missing from spreadsheet", sheet)
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1),
					EndIndex:   int64(rowNum),
				},
			},
		}},
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return repository.Unavailable(fmt.Sprintf("delete row %d from %s", rowNum, sheet), err)
	}

	s.logger.Debug("sheet row deleted", zap.String("sheet", sheet), zap.Int("row", rowNum))
	return nil
}
