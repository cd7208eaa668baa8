// Package metrics holds the derived-value calculations for batches and
// products. Everything here is a pure function over snapshot state: callers
// pass the batch rows (and a reference time) in, nothing reads the store.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KelvinKitheka/stocker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// TotalBuyCost is buy_price_per_unit * quantity for the whole batch.
func TotalBuyCost(b *model.StockBatch) decimal.Decimal {
	return b.BuyPricePerUnit.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

// EstimatedRevenue is quantity * sell_price_per_unit.
func EstimatedRevenue(b *model.StockBatch) decimal.Decimal {
	return b.SellPricePerUnit.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

// EstimatedProfit is estimated revenue minus total buy cost.
func EstimatedProfit(b *model.StockBatch) decimal.Decimal {
	return EstimatedRevenue(b).Sub(TotalBuyCost(b))
}

// ProfitMargin is estimated profit over total buy cost, as a percentage.
// A zero-cost batch yields 0, not an error.
func ProfitMargin(b *model.StockBatch) decimal.Decimal {
	cost := TotalBuyCost(b)
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return EstimatedProfit(b).Div(cost).Mul(hundred)
}

// DaysInStock is the number of whole days between added_at and depleted_at
// (or now for a live batch), floored at 1 so same-day batches never divide
// velocity by zero.
func DaysInStock(b *model.StockBatch, now time.Time) int {
	end := now
	if b.DepletedAt != nil {
		end = *b.DepletedAt
	}
	days := int(end.Sub(b.AddedAt).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Velocity is units sold per day for the batch: (quantity - remaining) /
// days in stock. Always >= 0.
func Velocity(b *model.StockBatch, now time.Time) float64 {
	sold := b.Quantity - b.RemainingQuantity
	if sold < 0 {
		sold = 0
	}
	return float64(sold) / float64(DaysInStock(b, now))
}

// CurrentStock sums remaining quantities across non-depleted batches.
func CurrentStock(batches []model.StockBatch) int {
	total := 0
	for i := range batches {
		if !batches[i].IsDepleted {
			total += batches[i].RemainingQuantity
		}
	}
	return total
}

// TotalValue sums remaining_quantity * buy_price_per_unit over non-depleted
// batches. Depleted batches carry no current value.
func TotalValue(batches []model.StockBatch) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		if batches[i].IsDepleted {
			continue
		}
		total = total.Add(batches[i].BuyPricePerUnit.Mul(decimal.NewFromInt(int64(batches[i].RemainingQuantity))))
	}
	return total
}

// AverageVelocity is the mean velocity across a product's non-depleted
// batches, or 0 when it has none.
func AverageVelocity(batches []model.StockBatch, now time.Time) float64 {
	sum := 0.0
	n := 0
	for i := range batches {
		if batches[i].IsDepleted {
			continue
		}
		sum += Velocity(&batches[i], now)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// IsTriggered reports whether current stock has fallen to or below the
// alert threshold. Callers must additionally check the alert's IsActive
// flag before surfacing a triggered alert.
func IsTriggered(currentStock, threshold int) bool {
	return currentStock <= threshold
}
