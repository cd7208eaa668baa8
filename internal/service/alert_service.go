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

// AlertService manages low-stock alerts. Triggered state is computed on
// every read from the product's live batches — never cached or stored.
type AlertService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateAlertRequest) (*dto.AlertResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.AlertResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]dto.AlertResponse, error)
	// ListTriggered returns active alerts whose condition currently holds.
	// Inactive alerts are never reported triggered.
	ListTriggered(ctx context.Context, userID uuid.UUID) ([]dto.AlertResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateAlertRequest) (*dto.AlertResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type alertService struct {
	repo        repository.AlertRepository
	productRepo repository.ProductRepository
}

func NewAlertService(repo repository.AlertRepository, productRepo repository.ProductRepository) AlertService {
	return &alertService{repo: repo, productRepo: productRepo}
}

func (s *alertService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if req.ThresholdQuantity < 0 {
		return nil, apierror.ValidationFields("invalid alert", map[string]string{"threshold_quantity": "must not be negative"})
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	product, err := s.productRepo.FindByID(ctx, userID, productID)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	if _, err := s.repo.FindByProductID(ctx, userID, productID); err == nil {
		return nil, apierror.ValidationFields("invalid alert", map[string]string{"product_id": "product already has an alert"})
	}

	alert := &model.LowStockAlert{
		ProductID:         product.ID,
		ThresholdQuantity: req.ThresholdQuantity,
		IsActive:          true,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}
	alert.Product = product
	return alertToResponse(alert), nil
}

func (s *alertService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.AlertResponse, error) {
	alert, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("alert not found")
	}
	return alertToResponse(alert), nil
}

func (s *alertService) List(ctx context.Context, userID uuid.UUID) ([]dto.AlertResponse, error) {
	alerts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, *alertToResponse(&alerts[i]))
	}
	return items, nil
}

func (s *alertService) ListTriggered(ctx context.Context, userID uuid.UUID) ([]dto.AlertResponse, error) {
	alerts, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0)
	for i := range alerts {
		resp := alertToResponse(&alerts[i])
		if resp.IsTriggered {
			items = append(items, *resp)
		}
	}
	return items, nil
}

func (s *alertService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	alert, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apierror.NotFound("alert not found")
	}
	if req.ThresholdQuantity != nil {
		if *req.ThresholdQuantity < 0 {
			return nil, apierror.ValidationFields("invalid alert", map[string]string{"threshold_quantity": "must not be negative"})
		}
		alert.ThresholdQuantity = *req.ThresholdQuantity
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alertToResponse(alert), nil
}

func (s *alertService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return apierror.NotFound("alert not found")
	}
	return nil
}

func alertToResponse(a *model.LowStockAlert) *dto.AlertResponse {
	productName := ""
	currentStock := 0
	if a.Product != nil {
		productName = a.Product.Name
		currentStock = metrics.CurrentStock(a.Product.Batches)
	}
	return &dto.AlertResponse{
		ID:                a.ID.String(),
		ProductID:         a.ProductID.String(),
		ProductName:       productName,
		ThresholdQuantity: a.ThresholdQuantity,
		CurrentStock:      currentStock,
		IsActive:          a.IsActive,
		IsTriggered:       a.IsActive && metrics.IsTriggered(currentStock, a.ThresholdQuantity),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}
