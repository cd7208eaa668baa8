package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/model"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, userID uuid.UUID, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, userID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.UserID != userID {
			continue
		}
		switch filter.IsActive {
		case "false":
			if p.IsActive {
				continue
			}
		case "all":
		default:
			if !p.IsActive {
				continue
			}
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) ListWithStock(_ context.Context, userID uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.UserID == userID && p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

// ── In-memory BatchRepository stub ───────────────────────────────────────────

type stubBatchRepo struct {
	batches    map[uuid.UUID]*model.StockBatch
	owners     map[uuid.UUID]uuid.UUID // batch ID → owning user ID
	depletions []model.PartialDepletion

	// beforeDeplete, when set, runs right before each compare-and-set so
	// tests can simulate a concurrent writer.
	beforeDeplete func(r *stubBatchRepo, id uuid.UUID)
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{
		batches: make(map[uuid.UUID]*model.StockBatch),
		owners:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *stubBatchRepo) add(userID uuid.UUID, b *model.StockBatch) *model.StockBatch {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches[b.ID] = b
	r.owners[b.ID] = userID
	return b
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

func (r *stubBatchRepo) Create(_ context.Context, b *model.StockBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.StockBatch, error) {
	b, ok := r.batches[id]
	if !ok || r.owners[id] != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBatchRepo) List(_ context.Context, userID uuid.UUID, filter dto.BatchFilter) ([]model.StockBatch, int64, error) {
	var result []model.StockBatch
	for id, b := range r.batches {
		if r.owners[id] != userID {
			continue
		}
		if filter.ProductID != "" && b.ProductID.String() != filter.ProductID {
			continue
		}
		result = append(result, *b)
	}
	return result, int64(len(result)), nil
}

func (r *stubBatchRepo) ListActive(_ context.Context, userID uuid.UUID) ([]model.StockBatch, error) {
	var result []model.StockBatch
	for id, b := range r.batches {
		if r.owners[id] == userID && b.RemainingQuantity > 0 {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *stubBatchRepo) ListDepleted(_ context.Context, userID uuid.UUID) ([]model.StockBatch, error) {
	var result []model.StockBatch
	for id, b := range r.batches {
		if r.owners[id] == userID && b.IsDepleted {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *stubBatchRepo) ListDepletedBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]model.StockBatch, error) {
	var result []model.StockBatch
	for id, b := range r.batches {
		if r.owners[id] != userID || !b.IsDepleted || b.DepletedAt == nil {
			continue
		}
		if !b.DepletedAt.Before(from) && b.DepletedAt.Before(to) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *stubBatchRepo) CountDepletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	batches, err := r.ListDepletedBetween(ctx, userID, from, to)
	return int64(len(batches)), err
}

func (r *stubBatchRepo) Update(_ context.Context, b *model.StockBatch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if _, ok := r.batches[id]; !ok || r.owners[id] != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *stubBatchRepo) Deplete(_ *gorm.DB, id uuid.UUID, expectedRemaining, newRemaining int, depleted bool, depletedAt *time.Time) (int64, error) {
	if r.beforeDeplete != nil {
		r.beforeDeplete(r, id)
	}
	b, ok := r.batches[id]
	if !ok || b.IsDepleted || b.RemainingQuantity != expectedRemaining {
		return 0, nil
	}
	b.RemainingQuantity = newRemaining
	if depleted {
		b.IsDepleted = true
		b.DepletedAt = depletedAt
	}
	return 1, nil
}

func (r *stubBatchRepo) CreateDepletionTx(_ *gorm.DB, pd *model.PartialDepletion) error {
	if pd.ID == uuid.Nil {
		pd.ID = uuid.New()
	}
	r.depletions = append(r.depletions, *pd)
	return nil
}

func (r *stubBatchRepo) ListDepletions(_ context.Context, userID, batchID uuid.UUID) ([]model.PartialDepletion, error) {
	if r.owners[batchID] != userID {
		return nil, gorm.ErrRecordNotFound
	}
	var result []model.PartialDepletion
	for _, d := range r.depletions {
		if d.BatchID == batchID {
			result = append(result, d)
		}
	}
	return result, nil
}

// ── In-memory AlertRepository stub ───────────────────────────────────────────

type stubAlertRepo struct {
	alerts   map[uuid.UUID]*model.LowStockAlert
	owners   map[uuid.UUID]uuid.UUID // alert ID → owning user ID
	products *stubProductRepo        // resolves ownership through the product
}

func newStubAlertRepo(products *stubProductRepo) *stubAlertRepo {
	return &stubAlertRepo{
		alerts:   make(map[uuid.UUID]*model.LowStockAlert),
		owners:   make(map[uuid.UUID]uuid.UUID),
		products: products,
	}
}

func (r *stubAlertRepo) add(userID uuid.UUID, a *model.LowStockAlert) *model.LowStockAlert {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alerts[a.ID] = a
	r.owners[a.ID] = userID
	return a
}

func (r *stubAlertRepo) Create(_ context.Context, a *model.LowStockAlert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	r.alerts[a.ID] = a
	if p, ok := r.products.products[a.ProductID]; ok {
		r.owners[a.ID] = p.UserID
	}
	return nil
}

// preload mimics the real repository's Product.Batches preload.
func (r *stubAlertRepo) preload(a *model.LowStockAlert) *model.LowStockAlert {
	if a.Product == nil {
		a.Product = r.products.products[a.ProductID]
	}
	return a
}

func (r *stubAlertRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.LowStockAlert, error) {
	a, ok := r.alerts[id]
	if !ok || r.owners[id] != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.preload(a), nil
}

func (r *stubAlertRepo) FindByProductID(_ context.Context, userID, productID uuid.UUID) (*model.LowStockAlert, error) {
	for id, a := range r.alerts {
		if r.owners[id] == userID && a.ProductID == productID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) List(_ context.Context, userID uuid.UUID) ([]model.LowStockAlert, error) {
	var result []model.LowStockAlert
	for id, a := range r.alerts {
		if r.owners[id] == userID {
			result = append(result, *r.preload(a))
		}
	}
	return result, nil
}

func (r *stubAlertRepo) ListActive(_ context.Context, userID uuid.UUID) ([]model.LowStockAlert, error) {
	var result []model.LowStockAlert
	for id, a := range r.alerts {
		if r.owners[id] == userID && a.IsActive {
			result = append(result, *r.preload(a))
		}
	}
	return result, nil
}

func (r *stubAlertRepo) Update(_ context.Context, a *model.LowStockAlert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *stubAlertRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if _, ok := r.alerts[id]; !ok || r.owners[id] != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.alerts, id)
	return nil
}
