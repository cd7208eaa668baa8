package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/apierror"
	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/metrics"
	"github.com/KelvinKitheka/stocker/internal/model"
	"github.com/KelvinKitheka/stocker/internal/repository"
)

// DepletionReasonFinished zeroes the remaining quantity on full depletion;
// any other reason freezes whatever was left when the batch was closed out.
const DepletionReasonFinished = "finished"

// LedgerService owns all batch state transitions. The batch lifecycle is
// Active → (partial depletions)* → Depleted; the terminal transition fires
// either explicitly (DepleteFully) or implicitly when a partial depletion
// drives remaining_quantity to zero. Depleted batches never mutate again.
type LedgerService interface {
	CreateBatch(ctx context.Context, userID uuid.UUID, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, userID, id uuid.UUID) (*dto.BatchResponse, error)
	ListBatches(ctx context.Context, userID uuid.UUID, filter dto.BatchFilter) (*dto.BatchListResponse, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]dto.BatchResponse, error)
	DepletedTodayCount(ctx context.Context, userID uuid.UUID) (*dto.DepletedTodayResponse, error)
	UpdateBatch(ctx context.Context, userID, id uuid.UUID, req dto.UpdateBatchRequest) (*dto.BatchResponse, error)
	DeleteBatch(ctx context.Context, userID, id uuid.UUID) error

	MarkDepleted(ctx context.Context, userID, id uuid.UUID, req dto.MarkDepletedRequest) (*dto.BatchResponse, error)
	DepleteFully(ctx context.Context, userID, id uuid.UUID, reason string) (*dto.BatchResponse, error)
	DepletePartially(ctx context.Context, userID, id uuid.UUID, quantityUsed int, notes string) (*dto.BatchResponse, error)
	ListDepletions(ctx context.Context, userID, batchID uuid.UUID) ([]dto.PartialDepletionResponse, error)
}

type ledgerService struct {
	repo        repository.BatchRepository
	productRepo repository.ProductRepository
}

func NewLedgerService(repo repository.BatchRepository, productRepo repository.ProductRepository) LedgerService {
	return &ledgerService{repo: repo, productRepo: productRepo}
}

// errStaleBatch aborts a depletion transaction when the compare-and-set
// update matched no row: another writer changed remaining_quantity between
// our read and our write.
var errStaleBatch = errors.New("stale batch state")

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *ledgerService) CreateBatch(ctx context.Context, userID uuid.UUID, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if req.Quantity <= 0 {
		return nil, apierror.ValidationFields("invalid batch", map[string]string{"quantity": "must be greater than zero"})
	}
	if req.BuyPricePerUnit.IsNegative() {
		return nil, apierror.ValidationFields("invalid batch", map[string]string{"buy_price_per_unit": "must not be negative"})
	}
	if req.SellPricePerUnit.IsNegative() {
		return nil, apierror.ValidationFields("invalid batch", map[string]string{"sell_price_per_unit": "must not be negative"})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	product, err := s.productRepo.FindByID(ctx, userID, productID)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	batch := &model.StockBatch{
		ProductID:         product.ID,
		Quantity:          req.Quantity,
		RemainingQuantity: req.Quantity,
		BuyPricePerUnit:   req.BuyPricePerUnit,
		SellPricePerUnit:  req.SellPricePerUnit,
		AddedAt:           time.Now().UTC(),
		IsDepleted:        false,
		Notes:             req.Notes,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, err
	}
	batch.Product = product
	return batchToResponse(batch, time.Now().UTC()), nil
}

func (s *ledgerService) GetBatch(ctx context.Context, userID, id uuid.UUID) (*dto.BatchResponse, error) {
	batch, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("batch not found")
	}
	return batchToResponse(batch, time.Now().UTC()), nil
}

func (s *ledgerService) ListBatches(ctx context.Context, userID uuid.UUID, filter dto.BatchFilter) (*dto.BatchListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	batches, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	items := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, *batchToResponse(&batches[i], now))
	}
	return &dto.BatchListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ledgerService) ListActive(ctx context.Context, userID uuid.UUID) ([]dto.BatchResponse, error) {
	batches, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	items := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, *batchToResponse(&batches[i], now))
	}
	return items, nil
}

func (s *ledgerService) DepletedTodayCount(ctx context.Context, userID uuid.UUID) (*dto.DepletedTodayResponse, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := s.repo.CountDepletedBetween(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &dto.DepletedTodayResponse{Count: count}, nil
}

// UpdateBatch only touches fields with no ledger semantics. Quantities move
// exclusively through depletion operations.
func (s *ledgerService) UpdateBatch(ctx context.Context, userID, id uuid.UUID, req dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("batch not found")
	}
	if req.SellPricePerUnit != nil {
		if req.SellPricePerUnit.IsNegative() {
			return nil, apierror.ValidationFields("invalid batch", map[string]string{"sell_price_per_unit": "must not be negative"})
		}
		batch.SellPricePerUnit = *req.SellPricePerUnit
	}
	if req.Notes != nil {
		batch.Notes = *req.Notes
	}
	if err := s.repo.Update(ctx, batch); err != nil {
		return nil, err
	}
	return batchToResponse(batch, time.Now().UTC()), nil
}

func (s *ledgerService) DeleteBatch(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return apierror.NotFound("batch not found")
	}
	return nil
}

func (s *ledgerService) MarkDepleted(ctx context.Context, userID, id uuid.UUID, req dto.MarkDepletedRequest) (*dto.BatchResponse, error) {
	status := req.Status
	if status == "" {
		status = dto.DepletionStatusFinished
	}
	switch status {
	case dto.DepletionStatusFinished:
		return s.DepleteFully(ctx, userID, id, DepletionReasonFinished)
	case dto.DepletionStatusPartlyUsed:
		quantityUsed := 0
		if req.QuantityUsed != nil {
			quantityUsed = *req.QuantityUsed
		} else {
			// Default: use up everything that's left.
			batch, err := s.repo.FindByID(ctx, userID, id)
			if err != nil {
				return nil, apierror.NotFound("batch not found")
			}
			quantityUsed = batch.RemainingQuantity
		}
		return s.DepletePartially(ctx, userID, id, quantityUsed, req.Notes)
	default:
		return nil, apierror.ValidationFields("invalid depletion", map[string]string{"status": "must be finished or partly_used"})
	}
}

func (s *ledgerService) DepleteFully(ctx context.Context, userID, id uuid.UUID, reason string) (*dto.BatchResponse, error) {
	for attempt := 0; attempt < 2; attempt++ {
		batch, err := s.repo.FindByID(ctx, userID, id)
		if err != nil {
			return nil, apierror.NotFound("batch not found")
		}
		if batch.IsDepleted {
			return nil, apierror.InvalidState("batch is already depleted")
		}

		now := time.Now().UTC()
		newRemaining := batch.RemainingQuantity
		if reason == DepletionReasonFinished {
			newRemaining = 0
		}

		affected, err := s.repo.Deplete(s.repo.DB(), batch.ID, batch.RemainingQuantity, newRemaining, true, &now)
		if err != nil {
			return nil, err
		}
		if affected > 0 {
			return s.GetBatch(ctx, userID, id)
		}
		// Lost the race — re-read and try once more with fresh state.
	}
	return nil, apierror.Conflict("batch was modified concurrently, please retry")
}

func (s *ledgerService) DepletePartially(ctx context.Context, userID, id uuid.UUID, quantityUsed int, notes string) (*dto.BatchResponse, error) {
	if quantityUsed <= 0 {
		return nil, apierror.ValidationFields("invalid depletion", map[string]string{"quantity_used": "must be greater than zero"})
	}

	for attempt := 0; attempt < 2; attempt++ {
		batch, err := s.repo.FindByID(ctx, userID, id)
		if err != nil {
			return nil, apierror.NotFound("batch not found")
		}
		if batch.IsDepleted {
			return nil, apierror.InvalidState("batch is already depleted")
		}
		if quantityUsed > batch.RemainingQuantity {
			return nil, apierror.ValidationFields("invalid depletion", map[string]string{
				"quantity_used": fmt.Sprintf("exceeds remaining quantity (%d)", batch.RemainingQuantity),
			})
		}

		now := time.Now().UTC()
		newRemaining := batch.RemainingQuantity - quantityUsed
		depleted := newRemaining <= 0
		if newRemaining < 0 {
			newRemaining = 0
		}
		var depletedAt *time.Time
		if depleted {
			depletedAt = &now
		}

		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			entry := &model.PartialDepletion{
				BatchID:      batch.ID,
				QuantityUsed: quantityUsed,
				RecordedAt:   now,
				Notes:        notes,
			}
			if err := s.repo.CreateDepletionTx(tx, entry); err != nil {
				return err
			}
			affected, err := s.repo.Deplete(tx, batch.ID, batch.RemainingQuantity, newRemaining, depleted, depletedAt)
			if err != nil {
				return err
			}
			if affected == 0 {
				// Rolls back the log entry along with the update.
				return errStaleBatch
			}
			return nil
		})
		if txErr == nil {
			return s.GetBatch(ctx, userID, id)
		}
		if !errors.Is(txErr, errStaleBatch) {
			return nil, txErr
		}
	}
	return nil, apierror.Conflict("batch was modified concurrently, please retry")
}

func (s *ledgerService) ListDepletions(ctx context.Context, userID, batchID uuid.UUID) ([]dto.PartialDepletionResponse, error) {
	batch, err := s.repo.FindByID(ctx, userID, batchID)
	if err != nil {
		return nil, apierror.NotFound("batch not found")
	}
	depletions, err := s.repo.ListDepletions(ctx, userID, batchID)
	if err != nil {
		return nil, err
	}
	productName := ""
	if batch.Product != nil {
		productName = batch.Product.Name
	}
	items := make([]dto.PartialDepletionResponse, 0, len(depletions))
	for _, d := range depletions {
		items = append(items, dto.PartialDepletionResponse{
			ID:           d.ID.String(),
			BatchID:      d.BatchID.String(),
			QuantityUsed: d.QuantityUsed,
			RecordedAt:   d.RecordedAt.Format(time.RFC3339),
			Notes:        d.Notes,
			BatchInfo: dto.DepletionBatchInfo{
				Product:   productName,
				Remaining: batch.RemainingQuantity,
			},
		})
	}
	return items, nil
}

func batchToResponse(b *model.StockBatch, now time.Time) *dto.BatchResponse {
	productName := ""
	if b.Product != nil {
		productName = b.Product.Name
	}
	var depletedAt *string
	if b.DepletedAt != nil {
		s := b.DepletedAt.Format(time.RFC3339)
		depletedAt = &s
	}
	return &dto.BatchResponse{
		ID:                b.ID.String(),
		ProductID:         b.ProductID.String(),
		ProductName:       productName,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		BuyPricePerUnit:   b.BuyPricePerUnit,
		SellPricePerUnit:  b.SellPricePerUnit,
		AddedAt:           b.AddedAt.Format(time.RFC3339),
		DepletedAt:        depletedAt,
		IsDepleted:        b.IsDepleted,
		Notes:             b.Notes,
		TotalBuyCost:      metrics.TotalBuyCost(b),
		EstimatedProfit:   metrics.EstimatedProfit(b),
		ProfitMargin:      metrics.ProfitMargin(b),
		DaysInStock:       metrics.DaysInStock(b, now),
		Velocity:          metrics.Velocity(b, now),
	}
}
