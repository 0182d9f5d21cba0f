package models

import (
	"fmt"
	"strconv"
	"time"
)

// Column headers for the tabular stores. Order is part of the external
// contract shared by the Sheets and Excel backends and the export function.
var (
	SaleColumns = []string{
		"ID", "Date", "Day", "Village", "Customer Name", "Brand", "Tea Type",
		"Packaging", "Rate", "Quantity", "Total Amount", "Payment Status",
		"Amount Paid", "Balance", "Created At", "Updated At",
	}
	CustomerColumns = []string{"Village", "Customer Name", "Added On"}
	PricingColumns  = []string{"Package", "Rate", "Updated On"}
)

// Row flattens the record into the Sales sheet column order.
func (s SaleRecord) Row() []interface{} {
	return []interface{}{
		s.ID,
		s.Date.Format(DateLayout),
		s.Day,
		s.Village,
		s.CustomerName,
		s.Brand,
		string(s.TeaType),
		string(s.Packaging),
		s.Rate,
		s.Quantity,
		s.TotalAmount,
		string(s.PaymentStatus),
		s.AmountPaid,
		s.Balance,
		s.CreatedAt.Format(TimestampLayout),
		s.UpdatedAt.Format(TimestampLayout),
	}
}

// SaleFromRow parses one Sales sheet row back into a record. Cells arrive as
// strings or numbers depending on the backend, so parsing is tolerant of both.
func SaleFromRow(row []interface{}) (SaleRecord, error) {
	if len(row) < len(SaleColumns) {
		return SaleRecord{}, fmt.Errorf("sales row has %d cells, want %d", len(row), len(SaleColumns))
	}

	date, err := CellDate(row[1])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse sale date: %w", err)
	}
	rate, err := CellFloat(row[8])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse sale rate: %w", err)
	}
	quantity, err := CellInt(row[9])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse sale quantity: %w", err)
	}
	total, err := CellFloat(row[10])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse sale total: %w", err)
	}
	paid, err := CellFloat(row[12])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse amount paid: %w", err)
	}
	balance, err := CellFloat(row[13])
	if err != nil {
		return SaleRecord{}, fmt.Errorf("parse balance: %w", err)
	}

	createdAt, _ := CellTimestamp(row[14])
	updatedAt, _ := CellTimestamp(row[15])

	return SaleRecord{
		ID:            CellString(row[0]),
		Date:          date,
		Day:           CellString(row[2]),
		Village:       CellString(row[3]),
		CustomerName:  CellString(row[4]),
		Brand:         CellString(row[5]),
		TeaType:       TeaType(CellString(row[6])),
		Packaging:     Packaging(CellString(row[7])),
		Rate:          rate,
		Quantity:      quantity,
		TotalAmount:   total,
		PaymentStatus: PaymentStatus(CellString(row[11])),
		AmountPaid:    paid,
		Balance:       balance,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// Row flattens the customer into the Customers sheet column order.
func (c Customer) Row() []interface{} {
	return []interface{}{c.Village, c.Name, c.AddedOn.Format(TimestampLayout)}
}

// CustomerFromRow parses one Customers sheet row.
func CustomerFromRow(row []interface{}) (Customer, error) {
	if len(row) < 2 {
		return Customer{}, fmt.Errorf("customer row has %d cells, want at least 2", len(row))
	}
	c := Customer{Village: CellString(row[0]), Name: CellString(row[1])}
	if len(row) > 2 {
		c.AddedOn, _ = CellTimestamp(row[2])
	}
	return c, nil
}

// Row flattens the pricing entry into the Pricing sheet column order.
func (p PricingEntry) Row() []interface{} {
	return []interface{}{string(p.Package), p.Rate, p.UpdatedOn.Format(TimestampLayout)}
}

// PricingFromRow parses one Pricing sheet row.
func PricingFromRow(row []interface{}) (PricingEntry, error) {
	if len(row) < 2 {
		return PricingEntry{}, fmt.Errorf("pricing row has %d cells, want at least 2", len(row))
	}
	rate, err := CellFloat(row[1])
	if err != nil {
		return PricingEntry{}, fmt.Errorf("parse pricing rate: %w", err)
	}
	entry := PricingEntry{Package: Packaging(CellString(row[0])), Rate: rate}
	if len(row) > 2 {
		entry.UpdatedOn, _ = CellTimestamp(row[2])
	}
	return entry, nil
}

// CellString renders a spreadsheet cell as text.
func CellString(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// CellFloat parses a numeric cell.
func CellFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	str := CellString(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(str, 64)
}

// CellInt parses an integer cell.
func CellInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	}
	str := CellString(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.Atoi(str)
}

// CellDate parses a day-resolution date cell.
func CellDate(value interface{}) (time.Time, error) {
	str := CellString(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	if len(str) > len(DateLayout) {
		str = str[:len(DateLayout)]
	}
	return time.Parse(DateLayout, str)
}

// CellTimestamp parses a created/updated cell, falling back to date-only values.
func CellTimestamp(value interface{}) (time.Time, error) {
	str := CellString(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty timestamp cell")
	}
	if ts, err := time.Parse(TimestampLayout, str); err == nil {
		return ts, nil
	}
	return CellDate(value)
}
