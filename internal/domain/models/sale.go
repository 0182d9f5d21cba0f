package models

import "time"

// DateLayout is the day-resolution format used across sheets and reports.
const DateLayout = "2006-01-02"

// TimestampLayout is the format used for created/updated columns.
const TimestampLayout = "2006-01-02 15:04:05"

// TeaType enumerates the tea powder varieties on sale.
type TeaType string

const (
	TeaMix   TeaType = "Mix"
	TeaBarik TeaType = "Barik"
)

// TeaTypes lists the valid varieties in menu order.
var TeaTypes = []TeaType{TeaMix, TeaBarik}

// Valid reports whether the tea type is a known variety.
func (t TeaType) Valid() bool {
	return t == TeaMix || t == TeaBarik
}

// Packaging enumerates the packet sizes sold.
type Packaging string

const (
	Pack100g Packaging = "100gm"
	Pack250g Packaging = "250gm"
	Pack500g Packaging = "500gm"
	Pack1kg  Packaging = "1kg"
)

// Packagings lists the valid packet sizes in menu order.
var Packagings = []Packaging{Pack100g, Pack250g, Pack500g, Pack1kg}

// Valid reports whether the packaging is a known packet size.
func (p Packaging) Valid() bool {
	switch p {
	case Pack100g, Pack250g, Pack500g, Pack1kg:
		return true
	}
	return false
}

// PaymentStatus enumerates how much of a sale has been settled.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "Paid"
	PaymentHalfPaid PaymentStatus = "Half paid"
	PaymentNotPaid  PaymentStatus = "Not paid"
)

// Valid reports whether the status is one of the known settlement states.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPaid, PaymentHalfPaid, PaymentNotPaid:
		return true
	}
	return false
}

// DefaultVillages seeds the customer registry and selection lists.
var DefaultVillages = []string{
	"vairgwadi",
	"Bardwadi",
	"Harali KH",
	"Harali BK",
	"Other Village 1",
	"Other Village 2",
}

// dayVillages maps market days to their fixed village. Tuesday, Wednesday
// and Thursday have no fixed market and require an explicit village.
var dayVillages = map[time.Weekday]string{
	time.Monday:   "Harali KH",
	time.Friday:   "Bardwadi",
	time.Saturday: "vairgwadi",
	time.Sunday:   "Harali BK",
}

// VillageForDay returns the default village for the given weekday, if one exists.
func VillageForDay(day time.Weekday) (string, bool) {
	v, ok := dayVillages[day]
	return v, ok
}

// SaleRecord is one tea powder sales transaction.
type SaleRecord struct {
	ID            string        `bson:"sale_id" json:"id"`
	Date          time.Time     `bson:"date" json:"date"`
	Day           string        `bson:"day" json:"day"`
	Village       string        `bson:"village" json:"village"`
	CustomerName  string        `bson:"customer_name" json:"customer_name"`
	Brand         string        `bson:"brand" json:"brand"`
	TeaType       TeaType       `bson:"tea_type" json:"tea_type"`
	Packaging     Packaging     `bson:"packaging" json:"packaging"`
	Rate          float64       `bson:"rate" json:"rate"`
	Quantity      int           `bson:"quantity" json:"quantity"`
	TotalAmount   float64       `bson:"total_amount" json:"total_amount"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status"`
	AmountPaid    float64       `bson:"amount_paid" json:"amount_paid"`
	Balance       float64       `bson:"balance" json:"balance"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// Validate checks every invariant the record must satisfy at rest.
func (s SaleRecord) Validate() error {
	if s.CustomerName == "" {
		return &ValidationError{Field: "customer_name", Reason: "must not be empty"}
	}
	if s.Village == "" {
		return &ValidationError{Field: "village", Reason: "must not be empty"}
	}
	if !s.TeaType.Valid() {
		return &ValidationError{Field: "tea_type", Reason: "unknown tea type " + string(s.TeaType)}
	}
	if !s.Packaging.Valid() {
		return &ValidationError{Field: "packaging", Reason: "unknown packaging " + string(s.Packaging)}
	}
	if !s.PaymentStatus.Valid() {
		return &ValidationError{Field: "payment_status", Reason: "unknown status " + string(s.PaymentStatus)}
	}
	if s.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if s.Rate < 0 {
		return &ValidationError{Field: "rate", Reason: "must not be negative"}
	}
	if s.TotalAmount != s.Rate*float64(s.Quantity) {
		return &ValidationError{Field: "total_amount", Reason: "must equal rate * quantity"}
	}
	if s.AmountPaid < 0 || s.AmountPaid > s.TotalAmount {
		return &ValidationError{Field: "amount_paid", Reason: "must be between 0 and the total amount"}
	}
	if s.Balance != s.TotalAmount-s.AmountPaid {
		return &ValidationError{Field: "balance", Reason: "must equal total amount minus amount paid"}
	}

	switch s.PaymentStatus {
	case PaymentPaid:
		if s.Balance != 0 {
			return &ValidationError{Field: "payment_status", Reason: "Paid requires a zero balance"}
		}
	case PaymentNotPaid:
		if s.AmountPaid != 0 {
			return &ValidationError{Field: "payment_status", Reason: "Not paid requires amount paid of 0"}
		}
	case PaymentHalfPaid:
		if s.AmountPaid <= 0 || s.AmountPaid >= s.TotalAmount {
			return &ValidationError{Field: "payment_status", Reason: "Half paid requires 0 < amount paid < total amount"}
		}
	}

	return nil
}
