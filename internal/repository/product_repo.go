package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/model"
)

// ProductRepository defines the data access contract for products.
// Every query takes the owning user's ID explicitly — ownership scoping is
// never inferred from ambient state. Services depend on this interface, not
// on the concrete GORM implementation, enabling unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// FindByID returns gorm.ErrRecordNotFound for records owned by other
	// users, so their existence never leaks.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Product, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	// ListWithStock preloads batches and alert for derived-metric evaluation.
	ListWithStock(ctx context.Context, userID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete hard-deletes the product; batches, partial depletions and the
	// alert go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Batches").
		Preload("Alert").
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("user_id = ?", userID)

	// IsActive filter: "false" = inactive, "all" = everything, default = active
	switch filter.IsActive {
	case "false":
		q = q.Where("is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("is_active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Batches").Preload("Alert").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListWithStock(ctx context.Context, userID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Batches").
		Preload("Alert").
		Where("user_id = ? AND is_active = true", userID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
