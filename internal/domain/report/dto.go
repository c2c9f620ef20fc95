package report

// StockStats summarizes inventory health.
type StockStats struct {
	TotalProducts int   `json:"total_products"`
	InStock       int   `json:"in_stock"`
	LowStock      int   `json:"low_stock"`
	OutOfStock    int   `json:"out_of_stock"`
	StockValue    int64 `json:"stock_value"`
}

// OrderStats counts orders per pipeline stage.
type OrderStats struct {
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Packed     int `json:"packed"`
	Dispatched int `json:"dispatched"`
	Delivered  int `json:"delivered"`
}

// BalanceStats totals outstanding party balances.
type BalanceStats struct {
	Receivable int64 `json:"receivable"`
	Payable    int64 `json:"payable"`
}

// DashboardSummary is the GET /reports/dashboard body.
type DashboardSummary struct {
	Stock    StockStats   `json:"stock"`
	Orders   OrderStats   `json:"orders"`
	Balances BalanceStats `json:"balances"`
}
