package reporting

import (
	"fmt"
	"sort"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// ComputeDashboard sums the headline metrics over records inside the period.
// Pending balances are totaled over every record regardless of period, since
// they represent real outstanding debt; pass scopePending to restrict them to
// the window as well. An empty record set yields zero metrics, never an error.
func ComputeDashboard(records []models.SaleRecord, period Period, scopePending bool) models.Dashboard {
	dash := models.Dashboard{Period: period.String()}

	byVillage := map[string]float64{}
	byTeaType := map[string]float64{}

	for _, r := range records {
		if !scopePending || period.Contains(r.Date) {
			dash.TotalPending += r.Balance
		}
		if !period.Contains(r.Date) {
			continue
		}
		dash.TotalSales += r.TotalAmount
		dash.TotalOrders++
		dash.TotalItemsSold += r.Quantity
		byVillage[r.Village] += r.TotalAmount
		byTeaType[string(r.TeaType)] += r.TotalAmount
	}

	dash.SalesByVillage = categoryTotals(byVillage)
	dash.SalesByTeaType = categoryTotals(byTeaType)
	return dash
}

// ComputeDailySummary groups records inside the period by calendar date.
// Buckets with no records are omitted; output is sorted by bucket key.
func ComputeDailySummary(records []models.SaleRecord, period Period) []models.BucketSummary {
	return bucketize(records, period, func(r models.SaleRecord) string {
		return r.Date.Format(models.DateLayout)
	})
}

// ComputeWeeklySummary groups records inside the period by ISO week.
func ComputeWeeklySummary(records []models.SaleRecord, period Period) []models.BucketSummary {
	return bucketize(records, period, func(r models.SaleRecord) string {
		year, week := r.Date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	})
}

// ComputeMonthlySummary groups records inside the period by year-month.
func ComputeMonthlySummary(records []models.SaleRecord, period Period) []models.BucketSummary {
	return bucketize(records, period, func(r models.SaleRecord) string {
		return r.Date.Format("2006-01")
	})
}

// ComputeByCustomer rolls up records inside the period per customer.
func ComputeByCustomer(records []models.SaleRecord, period Period) []models.Rollup {
	return rollup(records, period, func(r models.SaleRecord) string {
		return r.CustomerName
	})
}

// ComputeByVillage rolls up records inside the period per village.
func ComputeByVillage(records []models.SaleRecord, period Period) []models.Rollup {
	return rollup(records, period, func(r models.SaleRecord) string {
		return r.Village
	})
}

// ComputeByProduct rolls up records inside the period per (tea type, packaging).
func ComputeByProduct(records []models.SaleRecord, period Period) []models.Rollup {
	return rollup(records, period, func(r models.SaleRecord) string {
		return string(r.TeaType) + " " + string(r.Packaging)
	})
}

// ComputePending lists outstanding balances per customer, optionally for one
// village, with the grand total. Balances are taken as stored, never cached.
func ComputePending(records []models.SaleRecord, village string) models.PendingReport {
	report := models.PendingReport{
		Customers:    []models.PendingCustomer{},
		VillageScope: village,
	}

	index := map[string]int{}
	for _, r := range records {
		if r.Balance <= 0 {
			continue
		}
		if village != "" && r.Village != village {
			continue
		}

		key := r.Village + "/" + r.CustomerName
		i, ok := index[key]
		if !ok {
			i = len(report.Customers)
			index[key] = i
			report.Customers = append(report.Customers, models.PendingCustomer{
				CustomerName: r.CustomerName,
				Village:      r.Village,
			})
		}
		report.Customers[i].TotalPending += r.Balance
		report.Customers[i].RecordCount++
		report.GrandTotal += r.Balance
	}

	sort.SliceStable(report.Customers, func(i, j int) bool {
		a, b := report.Customers[i], report.Customers[j]
		if a.TotalPending != b.TotalPending {
			return a.TotalPending > b.TotalPending
		}
		if a.Village != b.Village {
			return a.Village < b.Village
		}
		return a.CustomerName < b.CustomerName
	})
	return report
}

func bucketize(records []models.SaleRecord, period Period, keyFn func(models.SaleRecord) string) []models.BucketSummary {
	index := map[string]int{}
	summaries := []models.BucketSummary{}

	for _, r := range records {
		if !period.Contains(r.Date) {
			continue
		}
		key := keyFn(r)
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, models.BucketSummary{Bucket: key})
		}
		summaries[i].TotalSales += r.TotalAmount
		summaries[i].OrderCount++
		summaries[i].ItemsSold += r.Quantity
		summaries[i].PendingBalance += r.Balance
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Bucket < summaries[j].Bucket
	})
	return summaries
}

// rollup groups by one categorical key. Display order is descending total
// amount, ties broken by ascending key, so output is stable across runs.
func rollup(records []models.SaleRecord, period Period, keyFn func(models.SaleRecord) string) []models.Rollup {
	index := map[string]int{}
	rollups := []models.Rollup{}

	for _, r := range records {
		if !period.Contains(r.Date) {
			continue
		}
		key := keyFn(r)
		i, ok := index[key]
		if !ok {
			i = len(rollups)
			index[key] = i
			rollups = append(rollups, models.Rollup{Key: key})
		}
		rollups[i].Count++
		rollups[i].TotalAmount += r.TotalAmount
		rollups[i].TotalQuantity += r.Quantity
		rollups[i].TotalPending += r.Balance
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		if rollups[i].TotalAmount != rollups[j].TotalAmount {
			return rollups[i].TotalAmount > rollups[j].TotalAmount
		}
		return rollups[i].Key < rollups[j].Key
	})
	return rollups
}

func categoryTotals(sums map[string]float64) []models.CategoryTotal {
	totals := make([]models.CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		totals = append(totals, models.CategoryTotal{Category: category, Amount: amount})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}
