package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name             string          `json:"name"               validate:"required,min=1,max=200"`
	Category         string          `json:"category"           validate:"required"`
	DefaultSellPrice decimal.Decimal `json:"default_sell_price" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name"               validate:"omitempty,min=1,max=200"`
	Category         *string          `json:"category"`
	DefaultSellPrice *decimal.Decimal `json:"default_sell_price"`
	IsActive         *bool            `json:"is_active"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ProductFilter: IsActive accepts "false" (inactive only), "all", or
// anything else for the default active-only listing.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	IsActive string `form:"is_active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	DefaultSellPrice decimal.Decimal `json:"default_sell_price"`
	CurrentStock     int             `json:"current_stock"`
	TotalValue       decimal.Decimal `json:"total_value"`
	AverageVelocity  float64         `json:"average_velocity"`
	HasAlert         bool            `json:"has_alert"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// AlertedProductResponse is one row of GET /products/with_alerts.
type AlertedProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
}
