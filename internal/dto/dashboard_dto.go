package dto

import "github.com/shopspring/decimal"

// DashboardResponse is the full aggregated payload of GET /dashboard.
// Everything is computed fresh per request from the caller's batches.
type DashboardResponse struct {
	DailyProfit        decimal.Decimal  `json:"daily_profit"`
	StockDepletedCount int64            `json:"stock_depleted_count"`
	LowStockAlerts     []LowStockEntry  `json:"low_stock_alerts"`
	IncomeThisWeek     decimal.Decimal  `json:"income_this_week"`
	FastMovers         []MoverEntry     `json:"fast_movers"`
	SlowMovers         []MoverEntry     `json:"slow_movers"`
	WeeklySummary      []WeeklyDayEntry `json:"weekly_summary"`
	TotalProfitWeek    decimal.Decimal  `json:"total_profit_week"`
	AvgStockTurnover   float64          `json:"avg_stock_turnover"`
}

type LowStockEntry struct {
	Product   string `json:"product"`
	Remaining int    `json:"remaining"`
	Threshold int    `json:"threshold"`
}

// MoverEntry is a product ranked by mean depleted-batch velocity.
type MoverEntry struct {
	Product  string  `json:"product"`
	Velocity float64 `json:"velocity"`
}

// WeeklyDayEntry is one trailing-week calendar day, oldest first.
type WeeklyDayEntry struct {
	Day    string          `json:"day"` // abbreviated name, e.g. "Mon"
	Profit decimal.Decimal `json:"profit"`
}
