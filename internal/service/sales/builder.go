package sales

import (
	"fmt"
	"time"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// RecordInput carries the raw form fields for one sale. Optional fields are
// pointers so "omitted" and "explicit zero" stay distinguishable.
type RecordInput struct {
	Date          time.Time
	Day           string
	Village       string
	CustomerName  string
	Brand         string
	TeaType       models.TeaType
	Packaging     models.Packaging
	Rate          *float64
	Quantity      int
	PaymentStatus models.PaymentStatus
	AmountPaid    *float64
}

// Changes is a partial update against an existing record.
type Changes struct {
	Date          *time.Time
	Day           *string
	Village       *string
	CustomerName  *string
	Brand         *string
	TeaType       *models.TeaType
	Packaging     *models.Packaging
	Rate          *float64
	Quantity      *int
	PaymentStatus *models.PaymentStatus
	AmountPaid    *float64
}

// BuildRecord derives a fully-populated sale from raw input and a pricing
// snapshot. It is pure: persistence and ID assignment belong to the caller.
//
// Derivations: day from date (overridable), village from the market-day table
// when omitted, rate from the price list when omitted, then
// totalAmount = rate * quantity and balance = totalAmount - amountPaid.
func BuildRecord(input RecordInput, prices models.PriceList, now time.Time) (models.SaleRecord, error) {
	if input.Date.IsZero() {
		input.Date = now
	}
	input.Date = truncateToDay(input.Date)

	day := input.Day
	if day == "" {
		day = input.Date.Weekday().String()
	}
	weekday, err := weekdayFromName(day)
	if err != nil {
		return models.SaleRecord{}, err
	}

	village := input.Village
	if village == "" {
		mapped, ok := models.VillageForDay(weekday)
		if !ok {
			return models.SaleRecord{}, &models.ValidationError{
				Field:  "village",
				Reason: fmt.Sprintf("no default village for %s, select one explicitly", day),
			}
		}
		village = mapped
	}

	if input.Quantity <= 0 {
		return models.SaleRecord{}, &models.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}

	var rate float64
	switch {
	case input.Rate != nil:
		rate = *input.Rate
	default:
		configured, ok := prices.Rate(input.Packaging)
		if !ok {
			return models.SaleRecord{}, &models.ValidationError{
				Field:  "rate",
				Reason: "no price configured for packaging " + string(input.Packaging),
			}
		}
		rate = configured
	}
	if rate < 0 {
		return models.SaleRecord{}, &models.ValidationError{Field: "rate", Reason: "must not be negative"}
	}

	total := rate * float64(input.Quantity)

	paid, err := resolveAmountPaid(input.PaymentStatus, input.AmountPaid, total)
	if err != nil {
		return models.SaleRecord{}, err
	}

	record := models.SaleRecord{
		Date:          input.Date,
		Day:           day,
		Village:       village,
		CustomerName:  input.CustomerName,
		Brand:         input.Brand,
		TeaType:       input.TeaType,
		Packaging:     input.Packaging,
		Rate:          rate,
		Quantity:      input.Quantity,
		TotalAmount:   total,
		PaymentStatus: input.PaymentStatus,
		AmountPaid:    paid,
		Balance:       total - paid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := record.Validate(); err != nil {
		return models.SaleRecord{}, err
	}
	return record, nil
}

// ReviseRecord applies a partial update, re-derives every computed field from
// the merged inputs and re-validates. ID and CreatedAt carry over unchanged;
// UpdatedAt is set to now. The rate stays the stored snapshot unless the
// change set touches it or switches packaging.
func ReviseRecord(existing models.SaleRecord, changes Changes, prices models.PriceList, now time.Time) (models.SaleRecord, error) {
	input := RecordInput{
		Date:          existing.Date,
		Day:           existing.Day,
		Village:       existing.Village,
		CustomerName:  existing.CustomerName,
		Brand:         existing.Brand,
		TeaType:       existing.TeaType,
		Packaging:     existing.Packaging,
		Quantity:      existing.Quantity,
		PaymentStatus: existing.PaymentStatus,
	}

	if changes.Date != nil {
		input.Date = *changes.Date
		// The day tracks an edited date unless the caller pins it.
		if changes.Day == nil {
			input.Day = truncateToDay(*changes.Date).Weekday().String()
		}
	}
	if changes.Day != nil {
		input.Day = *changes.Day
	}
	if changes.Village != nil {
		input.Village = *changes.Village
	}
	if changes.CustomerName != nil {
		input.CustomerName = *changes.CustomerName
	}
	if changes.Brand != nil {
		input.Brand = *changes.Brand
	}
	if changes.TeaType != nil {
		input.TeaType = *changes.TeaType
	}
	if changes.Quantity != nil {
		input.Quantity = *changes.Quantity
	}
	if changes.PaymentStatus != nil {
		input.PaymentStatus = *changes.PaymentStatus
	}

	switch {
	case changes.Rate != nil:
		input.Rate = changes.Rate
	case changes.Packaging != nil && *changes.Packaging != existing.Packaging:
		// New packaging without an explicit rate: look up the current price.
		input.Rate = nil
	default:
		snapshot := existing.Rate
		input.Rate = &snapshot
	}
	if changes.Packaging != nil {
		input.Packaging = *changes.Packaging
	}

	switch {
	case changes.AmountPaid != nil:
		input.AmountPaid = changes.AmountPaid
	case input.PaymentStatus == models.PaymentHalfPaid:
		carried := existing.AmountPaid
		input.AmountPaid = &carried
	}

	revised, err := BuildRecord(input, prices, now)
	if err != nil {
		return models.SaleRecord{}, err
	}

	revised.ID = existing.ID
	revised.CreatedAt = existing.CreatedAt
	revised.UpdatedAt = now
	return revised, nil
}

// resolveAmountPaid fills the paid amount from the status when omitted and
// rejects explicit values that contradict the status. Inconsistent input is
// never silently clamped.
func resolveAmountPaid(status models.PaymentStatus, supplied *float64, total float64) (float64, error) {
	switch status {
	case models.PaymentPaid:
		if supplied == nil {
			return total, nil
		}
		if *supplied != total {
			return 0, &models.ValidationError{Field: "amount_paid", Reason: "Paid requires the full total amount"}
		}
		return *supplied, nil
	case models.PaymentNotPaid:
		if supplied == nil {
			return 0, nil
		}
		if *supplied != 0 {
			return 0, &models.ValidationError{Field: "amount_paid", Reason: "Not paid requires an amount paid of 0"}
		}
		return 0, nil
	case models.PaymentHalfPaid:
		if supplied == nil {
			return 0, &models.ValidationError{Field: "amount_paid", Reason: "required when status is Half paid"}
		}
		if *supplied <= 0 || *supplied >= total {
			return 0, &models.ValidationError{Field: "amount_paid", Reason: "Half paid requires 0 < amount paid < total amount"}
		}
		return *supplied, nil
	default:
		return 0, &models.ValidationError{Field: "payment_status", Reason: "unknown status " + string(status)}
	}
}

func weekdayFromName(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, &models.ValidationError{Field: "day", Reason: "unknown weekday " + name}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
