package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatch is a priced lot of a product received at one time.
// Invariant: 0 <= remaining_quantity <= quantity. Once IsDepleted is set
// the batch is terminal — RemainingQuantity and DepletedAt never change again.
type StockBatch struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity          int       `gorm:"not null"`
	RemainingQuantity int       `gorm:"not null"`
	BuyPricePerUnit   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellPricePerUnit  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AddedAt           time.Time       `gorm:"not null;index"`
	DepletedAt        *time.Time      `gorm:"index"`
	IsDepleted        bool            `gorm:"not null;default:false;index"`
	Notes             string

	Product    *Product           `gorm:"foreignKey:ProductID"`
	Depletions []PartialDepletion `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name aligned with the API vocabulary.
func (StockBatch) TableName() string { return "stock_batches" }
