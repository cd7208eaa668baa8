package model

import (
	"time"

	"github.com/google/uuid"
)

// PartialDepletion is an append-only log entry recording one partial draw
// from a batch. Rows are never updated or deleted; the sum of QuantityUsed
// for a batch always equals quantity - remaining_quantity.
type PartialDepletion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityUsed int       `gorm:"not null"`
	RecordedAt   time.Time `gorm:"not null"`
	Notes        string

	Batch *StockBatch `gorm:"foreignKey:BatchID"`
}
