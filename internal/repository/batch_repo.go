package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/model"
)

// BatchRepository defines the data access contract for stock batches and
// their partial-depletion log. Batches are reached through their product, so
// every lookup joins on products.user_id for ownership scoping.
type BatchRepository interface {
	Create(ctx context.Context, b *model.StockBatch) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.StockBatch, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.BatchFilter) ([]model.StockBatch, int64, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]model.StockBatch, error)
	ListDepleted(ctx context.Context, userID uuid.UUID) ([]model.StockBatch, error)
	ListDepletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.StockBatch, error)
	CountDepletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	Update(ctx context.Context, b *model.StockBatch) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Deplete applies a depletion as a single conditional UPDATE guarded on
	// the remaining quantity the caller read (compare-and-set). It returns
	// the number of rows affected: 0 means another writer got there first
	// and the caller must re-read and retry. Runs inside tx when one is
	// given.
	Deplete(tx *gorm.DB, id uuid.UUID, expectedRemaining, newRemaining int, depleted bool, depletedAt *time.Time) (int64, error)
	// CreateDepletionTx appends a partial-depletion log entry inside tx.
	CreateDepletionTx(tx *gorm.DB, pd *model.PartialDepletion) error
	ListDepletions(ctx context.Context, userID, batchID uuid.UUID) ([]model.PartialDepletion, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) DB() *gorm.DB { return r.db }

func (r *batchRepo) Create(ctx context.Context, b *model.StockBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// scoped returns the base batch query restricted to the user's products.
func (r *batchRepo) scoped(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.StockBatch{}).
		Joins("JOIN products ON products.id = stock_batches.product_id").
		Where("products.user_id = ?", userID)
}

func (r *batchRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.StockBatch, error) {
	var b model.StockBatch
	err := r.scoped(ctx, userID).
		Preload("Product").
		Where("stock_batches.id = ?", id).
		First(&b).Error
	return &b, err
}

func (r *batchRepo) List(ctx context.Context, userID uuid.UUID, filter dto.BatchFilter) ([]model.StockBatch, int64, error) {
	q := r.scoped(ctx, userID)
	if filter.ProductID != "" {
		q = q.Where("stock_batches.product_id = ?", filter.ProductID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var batches []model.StockBatch
	err := q.Preload("Product").
		Order("stock_batches.added_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&batches).Error
	return batches, total, err
}

func (r *batchRepo) ListActive(ctx context.Context, userID uuid.UUID) ([]model.StockBatch, error) {
	var batches []model.StockBatch
	err := r.scoped(ctx, userID).
		Preload("Product").
		Where("stock_batches.remaining_quantity > 0").
		Order("stock_batches.added_at DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListDepleted(ctx context.Context, userID uuid.UUID) ([]model.StockBatch, error) {
	var batches []model.StockBatch
	err := r.scoped(ctx, userID).
		Preload("Product").
		Where("stock_batches.is_depleted = true").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListDepletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.StockBatch, error) {
	var batches []model.StockBatch
	err := r.scoped(ctx, userID).
		Preload("Product").
		Where("stock_batches.is_depleted = true AND stock_batches.depleted_at >= ? AND stock_batches.depleted_at < ?", from, to).
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) CountDepletedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.scoped(ctx, userID).
		Where("stock_batches.is_depleted = true AND stock_batches.depleted_at >= ? AND stock_batches.depleted_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *batchRepo) Update(ctx context.Context, b *model.StockBatch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *batchRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND product_id IN (?)",
			id,
			r.db.Model(&model.Product{}).Select("id").Where("user_id = ?", userID),
		).
		Delete(&model.StockBatch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *batchRepo) Deplete(tx *gorm.DB, id uuid.UUID, expectedRemaining, newRemaining int, depleted bool, depletedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"remaining_quantity": newRemaining,
	}
	if depleted {
		updates["is_depleted"] = true
		updates["depleted_at"] = depletedAt
	}
	res := tx.Model(&model.StockBatch{}).
		Where("id = ? AND is_depleted = false AND remaining_quantity = ?", id, expectedRemaining).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *batchRepo) CreateDepletionTx(tx *gorm.DB, pd *model.PartialDepletion) error {
	return tx.Create(pd).Error
}

func (r *batchRepo) ListDepletions(ctx context.Context, userID, batchID uuid.UUID) ([]model.PartialDepletion, error) {
	var depletions []model.PartialDepletion
	err := r.db.WithContext(ctx).Model(&model.PartialDepletion{}).
		Joins("JOIN stock_batches ON stock_batches.id = partial_depletions.batch_id").
		Joins("JOIN products ON products.id = stock_batches.product_id").
		Where("products.user_id = ? AND partial_depletions.batch_id = ?", userID, batchID).
		Order("partial_depletions.recorded_at ASC").
		Find(&depletions).Error
	return depletions, err
}
