package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateAlertRequest struct {
	ProductID         string `json:"product_id"         validate:"required,uuid"`
	ThresholdQuantity int    `json:"threshold_quantity" validate:"min=0"`
}

type UpdateAlertRequest struct {
	ThresholdQuantity *int  `json:"threshold_quantity" validate:"omitempty,min=0"`
	IsActive          *bool `json:"is_active"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// AlertResponse: IsTriggered is evaluated against the product's current
// stock at read time, never stored.
type AlertResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	ThresholdQuantity int    `json:"threshold_quantity"`
	CurrentStock      int    `json:"current_stock"`
	IsActive          bool   `json:"is_active"`
	IsTriggered       bool   `json:"is_triggered"`
	CreatedAt         string `json:"created_at"`
}
