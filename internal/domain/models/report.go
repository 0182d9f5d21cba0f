package models

// Dashboard carries the headline metrics for a period.
type Dashboard struct {
	Period         string          `bson:"period" json:"period"`
	TotalSales     float64         `bson:"total_sales" json:"total_sales"`
	TotalOrders    int             `bson:"total_orders" json:"total_orders"`
	TotalItemsSold int             `bson:"total_items_sold" json:"total_items_sold"`
	TotalPending   float64         `bson:"total_pending" json:"total_pending"`
	SalesByVillage []CategoryTotal `bson:"sales_by_village" json:"sales_by_village"`
	SalesByTeaType []CategoryTotal `bson:"sales_by_tea_type" json:"sales_by_tea_type"`
}

// CategoryTotal is one slice of a chartable breakdown, ordered by descending amount.
type CategoryTotal struct {
	Category string  `bson:"category" json:"category"`
	Amount   float64 `bson:"amount" json:"amount"`
}

// BucketSummary aggregates one calendar bucket (a date, an ISO week or a month).
type BucketSummary struct {
	Bucket         string  `json:"bucket"`
	TotalSales     float64 `json:"total_sales"`
	OrderCount     int     `json:"order_count"`
	ItemsSold      int     `json:"items_sold"`
	PendingBalance float64 `json:"pending_balance"`
}

// Rollup aggregates records over one categorical dimension.
type Rollup struct {
	Key           string  `json:"key"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	TotalQuantity int     `json:"total_quantity"`
	TotalPending  float64 `json:"total_pending"`
}

// PendingCustomer is one customer's outstanding balance.
type PendingCustomer struct {
	CustomerName string  `json:"customer_name"`
	Village      string  `json:"village"`
	TotalPending float64 `json:"total_pending"`
	RecordCount  int     `json:"record_count"`
}

// PendingReport lists every customer with an outstanding balance.
type PendingReport struct {
	Customers    []PendingCustomer `json:"customers"`
	GrandTotal   float64           `json:"grand_total"`
	VillageScope string            `json:"village_scope,omitempty"`
}
