package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBatchRequest struct {
	ProductID        string          `json:"product_id"          validate:"required,uuid"`
	Quantity         int             `json:"quantity"            validate:"required,gt=0"`
	BuyPricePerUnit  decimal.Decimal `json:"buy_price_per_unit"  validate:"min=0"`
	SellPricePerUnit decimal.Decimal `json:"sell_price_per_unit" validate:"min=0"`
	Notes            string          `json:"notes"`
}

type UpdateBatchRequest struct {
	SellPricePerUnit *decimal.Decimal `json:"sell_price_per_unit"`
	Notes            *string          `json:"notes"`
}

// Depletion statuses accepted by POST /batches/:id/mark_depleted.
const (
	DepletionStatusFinished   = "finished"
	DepletionStatusPartlyUsed = "partly_used"
)

// MarkDepletedRequest: "finished" fully depletes the batch; "partly_used"
// records a partial depletion, defaulting QuantityUsed to the batch's
// remaining quantity when omitted.
type MarkDepletedRequest struct {
	Status       string `json:"status"        validate:"omitempty,oneof=finished partly_used"`
	QuantityUsed *int   `json:"quantity_used" validate:"omitempty,gt=0"`
	Notes        string `json:"notes"`
}

type BatchFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	BuyPricePerUnit   decimal.Decimal `json:"buy_price_per_unit"`
	SellPricePerUnit  decimal.Decimal `json:"sell_price_per_unit"`
	AddedAt           string          `json:"added_at"`
	DepletedAt        *string         `json:"depleted_at"`
	IsDepleted        bool            `json:"is_depleted"`
	Notes             string          `json:"notes"`
	TotalBuyCost      decimal.Decimal `json:"total_buy_cost"`
	EstimatedProfit   decimal.Decimal `json:"estimated_profit"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	DaysInStock       int             `json:"days_in_stock"`
	Velocity          float64         `json:"velocity"`
}

type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type DepletedTodayResponse struct {
	Count int64 `json:"count"`
}

// PartialDepletionResponse mirrors one append-only depletion log entry.
type PartialDepletionResponse struct {
	ID           string             `json:"id"`
	BatchID      string             `json:"batch_id"`
	QuantityUsed int                `json:"quantity_used"`
	RecordedAt   string             `json:"recorded_at"`
	Notes        string             `json:"notes"`
	BatchInfo    DepletionBatchInfo `json:"batch_info"`
}

type DepletionBatchInfo struct {
	Product   string `json:"product"`
	Remaining int    `json:"remaining"`
}
