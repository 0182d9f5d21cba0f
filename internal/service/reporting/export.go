package reporting

import (
	"context"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// Export views accepted by ExportRows.
const (
	ViewDashboard = "dashboard"
	ViewDaily     = "daily"
	ViewWeekly    = "weekly"
	ViewMonthly   = "monthly"
	ViewCustomers = "customers"
	ViewVillages  = "villages"
	ViewProducts  = "products"
	ViewPending   = "pending"
)

// ExportRows renders a report view as flat rows (header first) suitable for
// writing to a spreadsheet.
func (s *Service) ExportRows(ctx context.Context, view string, period Period) ([][]interface{}, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	switch view {
	case ViewDashboard:
		return DashboardRows(ComputeDashboard(records, period, false)), nil
	case ViewDaily:
		return SummaryRows("Date", ComputeDailySummary(records, period)), nil
	case ViewWeekly:
		return SummaryRows("Week", ComputeWeeklySummary(records, period)), nil
	case ViewMonthly:
		return SummaryRows("Month", ComputeMonthlySummary(records, period)), nil
	case ViewCustomers:
		return RollupRows("Customer", ComputeByCustomer(records, period)), nil
	case ViewVillages:
		return RollupRows("Village", ComputeByVillage(records, period)), nil
	case ViewProducts:
		return RollupRows("Product", ComputeByProduct(records, period)), nil
	case ViewPending:
		return PendingRows(ComputePending(records, "")), nil
	default:
		return nil, &models.ValidationError{Field: "view", Reason: "unknown export view " + view}
	}
}

// DashboardRows flattens the dashboard into metric/value pairs followed by
// the per-category breakdowns.
func DashboardRows(dash models.Dashboard) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Period", dash.Period},
		{"Total Sales", dash.TotalSales},
		{"Total Orders", dash.TotalOrders},
		{"Total Items Sold", dash.TotalItemsSold},
		{"Total Pending", dash.TotalPending},
	}
	for _, entry := range dash.SalesByVillage {
		rows = append(rows, []interface{}{"Village " + entry.Category, entry.Amount})
	}
	for _, entry := range dash.SalesByTeaType {
		rows = append(rows, []interface{}{"Tea Type " + entry.Category, entry.Amount})
	}
	return rows
}

// SummaryRows flattens calendar bucket summaries.
func SummaryRows(bucketLabel string, summaries []models.BucketSummary) [][]interface{} {
	rows := [][]interface{}{{bucketLabel, "Total Sales", "Orders", "Items Sold", "Pending Balance"}}
	for _, sum := range summaries {
		rows = append(rows, []interface{}{sum.Bucket, sum.TotalSales, sum.OrderCount, sum.ItemsSold, sum.PendingBalance})
	}
	return rows
}

// RollupRows flattens a categorical rollup.
func RollupRows(keyLabel string, rollups []models.Rollup) [][]interface{} {
	rows := [][]interface{}{{keyLabel, "Orders", "Total Amount", "Total Quantity", "Total Pending"}}
	for _, r := range rollups {
		rows = append(rows, []interface{}{r.Key, r.Count, r.TotalAmount, r.TotalQuantity, r.TotalPending})
	}
	return rows
}

// PendingRows flattens the pending-payments view, grand total last.
func PendingRows(report models.PendingReport) [][]interface{} {
	rows := [][]interface{}{{"Village", "Customer", "Pending", "Records"}}
	for _, c := range report.Customers {
		rows = append(rows, []interface{}{c.Village, c.CustomerName, c.TotalPending, c.RecordCount})
	}
	rows = append(rows, []interface{}{"", "Grand Total", report.GrandTotal, len(report.Customers)})
	return rows
}
