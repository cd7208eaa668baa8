package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product categories accepted by the API.
const (
	CategoryFood        = "food"
	CategoryDrink       = "drink"
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryOther       = "other"
)

// ValidCategory reports whether cat is one of the known category values.
func ValidCategory(cat string) bool {
	switch cat {
	case CategoryFood, CategoryDrink, CategoryElectronics, CategoryClothing, CategoryOther:
		return true
	}
	return false
}

// Product is a catalog entry owned by a single user. Stock lives in
// StockBatch rows; current_stock, total_value and average_velocity are
// derived on read (see internal/metrics), never stored here.
type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_user_name"`
	Name             string    `gorm:"not null;uniqueIndex:idx_products_user_name"`
	Category         string    `gorm:"type:varchar(20);not null"`
	DefaultSellPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive         bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User    *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Batches []StockBatch  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Alert   *LowStockAlert `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
