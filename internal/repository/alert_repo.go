package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/model"
)

// AlertRepository defines the data access contract for low-stock alerts.
// Alerts hang one-to-one off products, so scoping joins through products.
type AlertRepository interface {
	Create(ctx context.Context, a *model.LowStockAlert) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.LowStockAlert, error)
	FindByProductID(ctx context.Context, userID, productID uuid.UUID) (*model.LowStockAlert, error)
	// List preloads Product.Batches so triggered state can be evaluated
	// without extra round-trips.
	List(ctx context.Context, userID uuid.UUID) ([]model.LowStockAlert, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]model.LowStockAlert, error)
	Update(ctx context.Context, a *model.LowStockAlert) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Create(ctx context.Context, a *model.LowStockAlert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) scoped(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.LowStockAlert{}).
		Joins("JOIN products ON products.id = low_stock_alerts.product_id").
		Where("products.user_id = ?", userID)
}

func (r *alertRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.LowStockAlert, error) {
	var a model.LowStockAlert
	err := r.scoped(ctx, userID).
		Preload("Product.Batches").
		Where("low_stock_alerts.id = ?", id).
		First(&a).Error
	return &a, err
}

func (r *alertRepo) FindByProductID(ctx context.Context, userID, productID uuid.UUID) (*model.LowStockAlert, error) {
	var a model.LowStockAlert
	err := r.scoped(ctx, userID).
		Preload("Product.Batches").
		Where("low_stock_alerts.product_id = ?", productID).
		First(&a).Error
	return &a, err
}

func (r *alertRepo) List(ctx context.Context, userID uuid.UUID) ([]model.LowStockAlert, error) {
	var alerts []model.LowStockAlert
	err := r.scoped(ctx, userID).
		Preload("Product.Batches").
		Order("low_stock_alerts.created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) ListActive(ctx context.Context, userID uuid.UUID) ([]model.LowStockAlert, error) {
	var alerts []model.LowStockAlert
	err := r.scoped(ctx, userID).
		Preload("Product.Batches").
		Where("low_stock_alerts.is_active = true").
		Order("low_stock_alerts.created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) Update(ctx context.Context, a *model.LowStockAlert) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *alertRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND product_id IN (?)",
			id,
			r.db.Model(&model.Product{}).Select("id").Where("user_id = ?", userID),
		).
		Delete(&model.LowStockAlert{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
