package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/metrics"
	"github.com/KelvinKitheka/stocker/internal/model"
	"github.com/KelvinKitheka/stocker/internal/repository"
)

// DashboardService folds the caller's depleted batches into the aggregate
// dashboard payload. Everything is a read-only snapshot computed fresh per
// request against a reference "today" — no caching, no incremental state.
type DashboardService interface {
	Get(ctx context.Context, userID uuid.UUID, today time.Time) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	batchRepo repository.BatchRepository
	alertRepo repository.AlertRepository
}

func NewDashboardService(batchRepo repository.BatchRepository, alertRepo repository.AlertRepository) DashboardService {
	return &dashboardService{batchRepo: batchRepo, alertRepo: alertRepo}
}

const moversLimit = 3

func (s *dashboardService) Get(ctx context.Context, userID uuid.UUID, today time.Time) (*dto.DashboardResponse, error) {
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	endOfToday := startOfToday.AddDate(0, 0, 1)
	// Trailing 7 calendar days, today included.
	weekStart := startOfToday.AddDate(0, 0, -6)

	depleted, err := s.batchRepo.ListDepleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		DailyProfit:     decimal.Zero,
		IncomeThisWeek:  decimal.Zero,
		TotalProfitWeek: decimal.Zero,
		FastMovers:      []dto.MoverEntry{},
		SlowMovers:      []dto.MoverEntry{},
		WeeklySummary:   make([]dto.WeeklyDayEntry, 0, 7),
		LowStockAlerts:  []dto.LowStockEntry{},
	}

	dayProfits := make([]decimal.Decimal, 7)
	for i := range dayProfits {
		dayProfits[i] = decimal.Zero
	}

	totalTurnoverDays := 0
	now := time.Now().UTC()

	for i := range depleted {
		b := &depleted[i]
		if b.DepletedAt == nil {
			continue
		}
		profit := metrics.EstimatedProfit(b)

		if !b.DepletedAt.Before(startOfToday) && b.DepletedAt.Before(endOfToday) {
			resp.DailyProfit = resp.DailyProfit.Add(profit)
			resp.StockDepletedCount++
		}
		if !b.DepletedAt.Before(weekStart) && b.DepletedAt.Before(endOfToday) {
			resp.IncomeThisWeek = resp.IncomeThisWeek.Add(metrics.EstimatedRevenue(b))
			resp.TotalProfitWeek = resp.TotalProfitWeek.Add(profit)
			dayIdx := int(b.DepletedAt.Sub(weekStart).Hours() / 24)
			if dayIdx >= 0 && dayIdx < 7 {
				dayProfits[dayIdx] = dayProfits[dayIdx].Add(profit)
			}
		}
		totalTurnoverDays += metrics.DaysInStock(b, now)
	}

	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		resp.WeeklySummary = append(resp.WeeklySummary, dto.WeeklyDayEntry{
			Day:    day.Format("Mon"),
			Profit: dayProfits[i],
		})
	}

	if len(depleted) > 0 {
		resp.AvgStockTurnover = round1(float64(totalTurnoverDays) / float64(len(depleted)))
	}

	fast, slow := movers(depleted, now)
	resp.FastMovers = fast
	resp.SlowMovers = slow

	alerts, err := s.alertRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		a := &alerts[i]
		if a.Product == nil {
			continue
		}
		stock := metrics.CurrentStock(a.Product.Batches)
		if metrics.IsTriggered(stock, a.ThresholdQuantity) {
			resp.LowStockAlerts = append(resp.LowStockAlerts, dto.LowStockEntry{
				Product:   a.Product.Name,
				Remaining: stock,
				Threshold: a.ThresholdQuantity,
			})
		}
	}

	return resp, nil
}

// movers groups depleted batches by product, averages their velocities, and
// returns the top and bottom slices of the descending ranking. Products
// without depleted batches never appear; both lists are empty when nothing
// has been depleted.
func movers(depleted []model.StockBatch, now time.Time) ([]dto.MoverEntry, []dto.MoverEntry) {
	type acc struct {
		name string
		sum  float64
		n    int
	}
	byProduct := make(map[uuid.UUID]*acc)
	for i := range depleted {
		b := &depleted[i]
		name := ""
		if b.Product != nil {
			name = b.Product.Name
		}
		a, ok := byProduct[b.ProductID]
		if !ok {
			a = &acc{name: name}
			byProduct[b.ProductID] = a
		}
		a.sum += metrics.Velocity(b, now)
		a.n++
	}

	ranked := make([]dto.MoverEntry, 0, len(byProduct))
	for _, a := range byProduct {
		ranked = append(ranked, dto.MoverEntry{
			Product:  a.name,
			Velocity: round2(a.sum / float64(a.n)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Velocity != ranked[j].Velocity {
			return ranked[i].Velocity > ranked[j].Velocity
		}
		return ranked[i].Product < ranked[j].Product
	})

	fastEnd := len(ranked)
	if fastEnd > moversLimit {
		fastEnd = moversLimit
	}
	slowStart := len(ranked) - moversLimit
	if slowStart < 0 {
		slowStart = 0
	}
	fast := append([]dto.MoverEntry{}, ranked[:fastEnd]...)
	slow := append([]dto.MoverEntry{}, ranked[slowStart:]...)
	return fast, slow
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
