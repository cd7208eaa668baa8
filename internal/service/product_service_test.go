package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KelvinKitheka/stocker/internal/apierror"
	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/model"
	"github.com/KelvinKitheka/stocker/internal/service"
)

func TestCreateProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo)
	userID := uuid.New()

	resp, err := svc.Create(context.Background(), userID, dto.CreateProductRequest{
		Name:             "Milk 1L",
		Category:         model.CategoryDrink,
		DefaultSellPrice: dec("2.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Milk 1L", resp.Name)
	assert.Equal(t, model.CategoryDrink, resp.Category)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 0, resp.CurrentStock)
	assert.False(t, resp.HasAlert)
}

func TestCreateProductInvalidCategory(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name:     "Gadget",
		Category: "gadgets",
	})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCreateProductNegativePrice(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name:             "Gadget",
		Category:         model.CategoryElectronics,
		DefaultSellPrice: dec("-5"),
	})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestDuplicateNameAllowedAcrossUsers(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	assert.NoError(t, err)
}

func TestGetProductCrossUserHidden(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo)

	p := &model.Product{UserID: uuid.New(), Name: "Milk 1L", Category: model.CategoryDrink, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), p))

	_, err := svc.Get(context.Background(), uuid.New(), p.ID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestProductDerivedFields(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo)
	userID := uuid.New()

	depletedAt := time.Now().UTC()
	p := &model.Product{
		UserID:   userID,
		Name:     "Coffee Beans",
		Category: model.CategoryFood,
		IsActive: true,
		Batches: []model.StockBatch{
			{Quantity: 10, RemainingQuantity: 7, BuyPricePerUnit: dec("2.50"), AddedAt: depletedAt.AddDate(0, 0, -5)},
			{Quantity: 8, RemainingQuantity: 0, BuyPricePerUnit: dec("10"), IsDepleted: true, DepletedAt: &depletedAt, AddedAt: depletedAt.AddDate(0, 0, -4)},
		},
		Alert: &model.LowStockAlert{ThresholdQuantity: 10, IsActive: true},
	}
	require.NoError(t, repo.Create(context.Background(), p))

	resp, err := svc.Get(context.Background(), userID, p.ID)
	require.NoError(t, err)

	assert.Equal(t, 7, resp.CurrentStock)
	assert.True(t, resp.TotalValue.Equal(dec("17.50")))
	assert.True(t, resp.HasAlert) // 7 <= threshold 10
}

func TestUpdateProductDuplicateName(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	require.NoError(t, err)
	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{Name: "Milk 2L", Category: model.CategoryDrink})
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	name := "Milk 1L"
	_, err = svc.Update(ctx, userID, id, dto.UpdateProductRequest{Name: &name})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestDeactivateProduct(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, dto.CreateProductRequest{Name: "Milk 1L", Category: model.CategoryDrink})
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	inactive := false
	resp, err := svc.Update(ctx, userID, id, dto.UpdateProductRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	// Default listing skips inactive products.
	list, err := svc.List(ctx, userID, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)

	list, err = svc.List(ctx, userID, dto.ProductFilter{IsActive: "all"})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
}

func TestDeleteProductMissing(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestWithAlerts(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo)
	userID := uuid.New()
	ctx := context.Background()

	// Triggered: 3 <= 5
	require.NoError(t, repo.Create(ctx, &model.Product{
		UserID: userID, Name: "Low", Category: model.CategoryOther, IsActive: true,
		Batches: []model.StockBatch{{Quantity: 10, RemainingQuantity: 3}},
		Alert:   &model.LowStockAlert{ThresholdQuantity: 5, IsActive: true},
	}))
	// Not triggered: 30 > 5
	require.NoError(t, repo.Create(ctx, &model.Product{
		UserID: userID, Name: "Plenty", Category: model.CategoryOther, IsActive: true,
		Batches: []model.StockBatch{{Quantity: 30, RemainingQuantity: 30}},
		Alert:   &model.LowStockAlert{ThresholdQuantity: 5, IsActive: true},
	}))
	// Triggered condition but alert disabled
	require.NoError(t, repo.Create(ctx, &model.Product{
		UserID: userID, Name: "Muted", Category: model.CategoryOther, IsActive: true,
		Batches: []model.StockBatch{{Quantity: 10, RemainingQuantity: 1}},
		Alert:   &model.LowStockAlert{ThresholdQuantity: 5, IsActive: false},
	}))
	// No alert configured
	require.NoError(t, repo.Create(ctx, &model.Product{
		UserID: userID, Name: "Plain", Category: model.CategoryOther, IsActive: true,
	}))

	alerted, err := svc.WithAlerts(ctx, userID)
	require.NoError(t, err)

	require.Len(t, alerted, 1)
	assert.Equal(t, "Low", alerted[0].Name)
	assert.Equal(t, 3, alerted[0].CurrentStock)
	assert.Equal(t, 5, alerted[0].Threshold)
}
