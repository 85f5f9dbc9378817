package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/catalog/repository"
	"github.com/lokamart/e-commerce-api/internal/catalog/repository/mocks"
)

func TestProductService_Listing(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	productSvc := NewProductService(mockRepo)
	ctx := context.TODO()

	t.Run("Public listing never includes hidden products", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, mock.MatchedBy(func(q domain.ListProductsQuery) bool {
			return !q.IncludeHidden
		})).Return([]domain.Product{{ID: "prod1", IsActive: true}}, 1, nil).Once()

		products, total, err := productSvc.ListProducts(ctx, domain.ListProductsQuery{Page: 1, Limit: 12, IncludeHidden: true})

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, products, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Admin listing includes hidden products", func(t *testing.T) {
		mockRepo.On("ListProducts", ctx, mock.MatchedBy(func(q domain.ListProductsQuery) bool {
			return q.IncludeHidden
		})).Return([]domain.Product{{ID: "prod1"}, {ID: "prod2", IsActive: false}}, 2, nil).Once()

		products, total, err := productSvc.AdminListProducts(ctx, domain.ListProductsQuery{Page: 1, Limit: 12})

		assert.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, products, 2)
	})
}

func TestProductService_GetProductDetails(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	productSvc := NewProductService(mockRepo)
	ctx := context.TODO()

	t.Run("Active product is returned", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod1").Return(&domain.Product{ID: "prod1", IsActive: true}, nil).Once()

		product, err := productSvc.GetProductDetails(ctx, "prod1")

		assert.NoError(t, err)
		assert.Equal(t, "prod1", product.ID)
	})

	t.Run("Inactive product reads as not found publicly", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod2").Return(&domain.Product{ID: "prod2", IsActive: false}, nil).Once()

		product, err := productSvc.GetProductDetails(ctx, "prod2")

		assert.Nil(t, product)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Admin can still read inactive product", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod2").Return(&domain.Product{ID: "prod2", IsActive: false}, nil).Once()

		product, err := productSvc.AdminGetProduct(ctx, "prod2")

		assert.NoError(t, err)
		assert.False(t, product.IsActive)
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod-x").Return(nil, repository.ErrProductNotFound).Once()

		product, err := productSvc.GetProductDetails(ctx, "prod-x")

		assert.Nil(t, product)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductService_CreateAndUpdate(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	productSvc := NewProductService(mockRepo)
	ctx := context.TODO()

	t.Run("New products start active", func(t *testing.T) {
		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

		product, err := productSvc.CreateProduct(ctx, domain.CreateProductRequest{
			Name:       "Kaos Polos",
			Price:      100000,
			Stock:      5,
			Discount:   20,
			CategoryID: "cat-1",
		})

		assert.NoError(t, err)
		assert.True(t, product.IsActive)
		assert.Equal(t, "mock-product-id", product.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Partial update only touches provided fields", func(t *testing.T) {
		mockRepo.On("GetProductByID", ctx, "prod1").Return(&domain.Product{
			ID:       "prod1",
			Name:     "Kaos Polos",
			Price:    100000,
			Stock:    5,
			IsActive: true,
		}, nil).Once()
		mockRepo.On("UpdateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

		newStock := 10
		product, err := productSvc.UpdateProduct(ctx, "prod1", domain.UpdateProductRequest{Stock: &newStock})

		assert.NoError(t, err)
		assert.Equal(t, 10, product.Stock)
		assert.Equal(t, "Kaos Polos", product.Name)
		assert.Equal(t, 100000.0, product.Price)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Soft delete hides instead of removing", func(t *testing.T) {
		mockRepo.On("SoftDeleteProduct", ctx, "prod1").Return(nil).Once()

		err := productSvc.DeleteProduct(ctx, "prod1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
