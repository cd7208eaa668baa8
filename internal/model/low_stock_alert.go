package model

import (
	"time"

	"github.com/google/uuid"
)

// LowStockAlert is a per-product threshold. Whether it is triggered is
// evaluated on every read against the product's current stock
// (metrics.IsTriggered) and is never persisted.
type LowStockAlert struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ThresholdQuantity int       `gorm:"not null"`
	IsActive          bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
