package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KelvinKitheka/stocker/internal/apierror"
	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/metrics"
	"github.com/KelvinKitheka/stocker/internal/model"
	"github.com/KelvinKitheka/stocker/internal/repository"
)

// ProductService defines the business logic contract for catalog products.
type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Delete removes the product and, by cascade, its batches, depletion
	// log entries, and alert.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// WithAlerts returns the caller's products whose active alert is
	// currently triggered.
	WithAlerts(ctx context.Context, userID uuid.UUID) ([]dto.AlertedProductResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !model.ValidCategory(req.Category) {
		return nil, apierror.ValidationFields("invalid product", map[string]string{"category": "must be one of food, drink, electronics, clothing, other"})
	}
	if req.DefaultSellPrice.IsNegative() {
		return nil, apierror.ValidationFields("invalid product", map[string]string{"default_sell_price": "must not be negative"})
	}
	if _, err := s.repo.FindByName(ctx, userID, req.Name); err == nil {
		return nil, apierror.ValidationFields("invalid product", map[string]string{"name": "a product with this name already exists"})
	}

	product := &model.Product{
		UserID:           userID,
		Name:             req.Name,
		Category:         req.Category,
		DefaultSellPrice: req.DefaultSellPrice,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product, time.Now().UTC()), nil
}

func (s *productService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	return productToResponse(product, time.Now().UTC()), nil
}

func (s *productService) List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i], now))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	if req.Name != nil && *req.Name != product.Name {
		if _, err := s.repo.FindByName(ctx, userID, *req.Name); err == nil {
			return nil, apierror.ValidationFields("invalid product", map[string]string{"name": "a product with this name already exists"})
		}
		product.Name = *req.Name
	}
	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return nil, apierror.ValidationFields("invalid product", map[string]string{"category": "must be one of food, drink, electronics, clothing, other"})
		}
		product.Category = *req.Category
	}
	if req.DefaultSellPrice != nil {
		if req.DefaultSellPrice.IsNegative() {
			return nil, apierror.ValidationFields("invalid product", map[string]string{"default_sell_price": "must not be negative"})
		}
		product.DefaultSellPrice = *req.DefaultSellPrice
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product, time.Now().UTC()), nil
}

func (s *productService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return apierror.NotFound("product not found")
	}
	return nil
}

func (s *productService) WithAlerts(ctx context.Context, userID uuid.UUID) ([]dto.AlertedProductResponse, error) {
	products, err := s.repo.ListWithStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerted := make([]dto.AlertedProductResponse, 0)
	for i := range products {
		p := &products[i]
		if p.Alert == nil || !p.Alert.IsActive {
			continue
		}
		stock := metrics.CurrentStock(p.Batches)
		if !metrics.IsTriggered(stock, p.Alert.ThresholdQuantity) {
			continue
		}
		alerted = append(alerted, dto.AlertedProductResponse{
			ID:           p.ID.String(),
			Name:         p.Name,
			CurrentStock: stock,
			Threshold:    p.Alert.ThresholdQuantity,
		})
	}
	return alerted, nil
}

func productToResponse(p *model.Product, now time.Time) *dto.ProductResponse {
	hasAlert := false
	if p.Alert != nil && p.Alert.IsActive {
		hasAlert = metrics.IsTriggered(metrics.CurrentStock(p.Batches), p.Alert.ThresholdQuantity)
	}
	return &dto.ProductResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		Category:         p.Category,
		DefaultSellPrice: p.DefaultSellPrice,
		CurrentStock:     metrics.CurrentStock(p.Batches),
		TotalValue:       metrics.TotalValue(p.Batches),
		AverageVelocity:  metrics.AverageVelocity(p.Batches, now),
		HasAlert:         hasAlert,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}
