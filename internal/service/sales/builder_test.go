package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smahadik/goldtea/internal/domain/models"
)

var testClock = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC) // a Saturday

func testPrices() models.PriceList {
	return models.DefaultPriceList()
}

func floatPtr(v float64) *float64 { return &v }

func validInput() RecordInput {
	return RecordInput{
		Date:          time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Rajesh Kumar",
		Brand:         "GOLD Tea Powder",
		TeaType:       models.TeaMix,
		Packaging:     models.Pack250g,
		Quantity:      2,
		PaymentStatus: models.PaymentPaid,
	}
}

func TestBuildRecordDerivedFields(t *testing.T) {
	record, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)

	assert.Equal(t, "Saturday", record.Day)
	assert.Equal(t, "vairgwadi", record.Village, "Saturday defaults to the vairgwadi market")
	assert.Equal(t, 140.0, record.Rate, "rate defaults from the pricing table")
	assert.Equal(t, 280.0, record.TotalAmount)
	assert.Equal(t, 280.0, record.AmountPaid, "Paid coerces an omitted amount to the total")
	assert.Equal(t, 0.0, record.Balance)
	assert.Equal(t, testClock, record.CreatedAt)
	assert.Equal(t, testClock, record.UpdatedAt)
}

func TestBuildRecordTotals(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		quantity  int
		wantTotal float64
	}{
		{name: "single packet", rate: 60, quantity: 1, wantTotal: 60},
		{name: "bulk order", rate: 520, quantity: 7, wantTotal: 3640},
		{name: "free sample", rate: 0, quantity: 3, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.Rate = floatPtr(tt.rate)
			input.Quantity = tt.quantity

			record, err := BuildRecord(input, testPrices(), testClock)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, record.TotalAmount)
			assert.Equal(t, record.TotalAmount-record.AmountPaid, record.Balance)
		})
	}
}

func TestBuildRecordPaymentConsistency(t *testing.T) {
	tests := []struct {
		name      string
		status    models.PaymentStatus
		paid      *float64
		wantPaid  float64
		wantError bool
	}{
		{name: "paid omitted coerces to total", status: models.PaymentPaid, wantPaid: 280},
		{name: "paid explicit full amount", status: models.PaymentPaid, paid: floatPtr(280), wantPaid: 280},
		{name: "paid with short amount rejected", status: models.PaymentPaid, paid: floatPtr(100), wantError: true},
		{name: "not paid omitted coerces to zero", status: models.PaymentNotPaid, wantPaid: 0},
		{name: "not paid with amount rejected", status: models.PaymentNotPaid, paid: floatPtr(50), wantError: true},
		{name: "half paid requires amount", status: models.PaymentHalfPaid, wantError: true},
		{name: "half paid inside bounds", status: models.PaymentHalfPaid, paid: floatPtr(100), wantPaid: 100},
		{name: "half paid at zero rejected", status: models.PaymentHalfPaid, paid: floatPtr(0), wantError: true},
		{name: "half paid at total rejected", status: models.PaymentHalfPaid, paid: floatPtr(280), wantError: true},
		{name: "overpayment rejected", status: models.PaymentHalfPaid, paid: floatPtr(300), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.PaymentStatus = tt.status
			input.AmountPaid = tt.paid

			record, err := BuildRecord(input, testPrices(), testClock)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, record.AmountPaid)
			assert.Equal(t, record.TotalAmount-tt.wantPaid, record.Balance)
		})
	}
}

func TestBuildRecordRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecordInput)
	}{
		{name: "zero quantity", mutate: func(in *RecordInput) { in.Quantity = 0 }},
		{name: "negative quantity", mutate: func(in *RecordInput) { in.Quantity = -4 }},
		{name: "negative rate", mutate: func(in *RecordInput) { in.Rate = floatPtr(-10) }},
		{name: "empty customer", mutate: func(in *RecordInput) { in.CustomerName = "" }},
		{name: "unknown tea type", mutate: func(in *RecordInput) { in.TeaType = "Green" }},
		{name: "unknown packaging", mutate: func(in *RecordInput) { in.Packaging = "2kg" }},
		{name: "unknown status", mutate: func(in *RecordInput) { in.PaymentStatus = "Pending" }},
		{name: "unknown day override", mutate: func(in *RecordInput) { in.Day = "Someday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := BuildRecord(input, testPrices(), testClock)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err), "want ValidationError, got %v", err)
		})
	}
}

func TestBuildRecordVillageDefaults(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		village     string
		wantVillage string
		wantError   bool
	}{
		{name: "monday maps to Harali KH", date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), wantVillage: "Harali KH"},
		{name: "friday maps to Bardwadi", date: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), wantVillage: "Bardwadi"},
		{name: "saturday maps to vairgwadi", date: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), wantVillage: "vairgwadi"},
		{name: "sunday maps to Harali BK", date: time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), wantVillage: "Harali BK"},
		{name: "tuesday has no default", date: time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), wantError: true},
		{name: "tuesday with explicit village", date: time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), village: "Other Village 1", wantVillage: "Other Village 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.Date = tt.date
			input.Village = tt.village

			record, err := BuildRecord(input, testPrices(), testClock)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVillage, record.Village)
		})
	}
}

func TestBuildRecordMissingRate(t *testing.T) {
	input := validInput()
	prices := models.PriceList{models.Pack100g: 60}

	_, err := BuildRecord(input, prices, testClock)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestReviseRecordNoChangesIsIdempotent(t *testing.T) {
	original, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	later := testClock.Add(48 * time.Hour)
	revised, err := ReviseRecord(original, Changes{}, testPrices(), later)
	require.NoError(t, err)

	assert.Equal(t, later, revised.UpdatedAt)
	revised.UpdatedAt = original.UpdatedAt
	assert.Equal(t, original, revised, "only UpdatedAt may differ")
}

func TestReviseRecordKeepsRateSnapshot(t *testing.T) {
	original, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	// The operator has since raised the 250gm price; the revision must keep
	// the rate the sale was made at.
	raised := models.PriceList{models.Pack250g: 999}
	quantity := 3
	revised, err := ReviseRecord(original, Changes{Quantity: &quantity}, raised, testClock.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 140.0, revised.Rate)
	assert.Equal(t, 420.0, revised.TotalAmount)
}

func TestReviseRecordRepricesOnPackagingChange(t *testing.T) {
	original, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	packaging := models.Pack1kg
	revised, err := ReviseRecord(original, Changes{Packaging: &packaging}, testPrices(), testClock.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, models.Pack1kg, revised.Packaging)
	assert.Equal(t, 520.0, revised.Rate)
	assert.Equal(t, 1040.0, revised.TotalAmount)
}

func TestReviseRecordDateChangeRederivesDay(t *testing.T) {
	original, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	sunday := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)
	revised, err := ReviseRecord(original, Changes{Date: &sunday}, testPrices(), testClock.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "Sunday", revised.Day)
	assert.Equal(t, "vairgwadi", revised.Village, "explicitly set village is kept over the day default")
}

func TestReviseRecordStatusTransitions(t *testing.T) {
	input := validInput()
	input.PaymentStatus = models.PaymentHalfPaid
	input.AmountPaid = floatPtr(100)
	original, err := BuildRecord(input, testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	paid := models.PaymentPaid
	settled, err := ReviseRecord(original, Changes{PaymentStatus: &paid}, testPrices(), testClock.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 280.0, settled.AmountPaid)
	assert.Equal(t, 0.0, settled.Balance)

	notPaid := models.PaymentNotPaid
	reopened, err := ReviseRecord(original, Changes{PaymentStatus: &notPaid}, testPrices(), testClock.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.0, reopened.AmountPaid)
	assert.Equal(t, 280.0, reopened.Balance)

	// An explicitly inconsistent amount is rejected, not clamped.
	_, err = ReviseRecord(original, Changes{PaymentStatus: &paid, AmountPaid: floatPtr(100)}, testPrices(), testClock.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestReviseRecordCarriesIdentity(t *testing.T) {
	original, err := BuildRecord(validInput(), testPrices(), testClock)
	require.NoError(t, err)
	original.ID = "sale-1"

	name := "Suresh Patil"
	revised, err := ReviseRecord(original, Changes{CustomerName: &name}, testPrices(), testClock.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, original.ID, revised.ID)
	assert.Equal(t, original.CreatedAt, revised.CreatedAt)
	assert.Equal(t, "Suresh Patil", revised.CustomerName)
}
