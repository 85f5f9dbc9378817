package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/cart/domain"
	"github.com/lokamart/e-commerce-api/internal/cart/repository"
	repoMocks "github.com/lokamart/e-commerce-api/internal/cart/repository/mocks"
	getterMocks "github.com/lokamart/e-commerce-api/internal/cart/service/mocks"
	catalogDomain "github.com/lokamart/e-commerce-api/internal/catalog/domain"
	catalogRepo "github.com/lokamart/e-commerce-api/internal/catalog/repository"
)

func newTestProduct(id string, stock int, active bool) *catalogDomain.Product {
	return &catalogDomain.Product{
		ID:       id,
		Name:     "Produk " + id,
		Price:    100000,
		Stock:    stock,
		Discount: 20,
		IsActive: active,
	}
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.TODO()
	req := domain.AddItemRequest{ProductID: "prod1", Quantity: 2}

	t.Run("Successful add to empty cart", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCartRepository)
		mockProducts := new(getterMocks.MockProductGetter)
		// sweepSpec kosong = scheduler mati di unit test
		cartSvc := NewCartService(mockRepo, mockProducts, "")

		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{}, nil).Once()
		mockRepo.On("AddItem", ctx, "user123", "prod1", 2).Return(nil).Once()
		// GetCart setelah mutasi
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{
			{ProductID: "prod1", Quantity: 2, Product: newTestProduct("prod1", 5, true)},
		}, nil).Once()

		lines, err := cartSvc.AddItem(ctx, "user123", req)

		assert.NoError(t, err)
		assert.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		mockRepo.AssertExpectations(t)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Merged quantity exceeding stock is rejected", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCartRepository)
		mockProducts := new(getterMocks.MockProductGetter)
		cartSvc := NewCartService(mockRepo, mockProducts, "")

		// Sudah ada 4 di cart, stok 5, minta 2 lagi -> 6 > 5
		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{
			{ProductID: "prod1", Quantity: 4, Product: newTestProduct("prod1", 5, true)},
		}, nil).Once()

		lines, err := cartSvc.AddItem(ctx, "user123", req)

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "AddItem", ctx, "user123", "prod1", 2)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Inactive product is rejected as not found", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCartRepository)
		mockProducts := new(getterMocks.MockProductGetter)
		cartSvc := NewCartService(mockRepo, mockProducts, "")

		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, false), nil).Once()

		lines, err := cartSvc.AddItem(ctx, "user123", req)

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrProductNotFound)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Unknown product is rejected as not found", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCartRepository)
		mockProducts := new(getterMocks.MockProductGetter)
		cartSvc := NewCartService(mockRepo, mockProducts, "")

		mockProducts.On("GetProductByID", ctx, "prod1").Return(nil, catalogRepo.ErrProductNotFound).Once()

		lines, err := cartSvc.AddItem(ctx, "user123", req)

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrProductNotFound)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Quantity defaults to 1 when omitted", func(t *testing.T) {
		mockRepo := new(repoMocks.MockCartRepository)
		mockProducts := new(getterMocks.MockProductGetter)
		cartSvc := NewCartService(mockRepo, mockProducts, "")

		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{}, nil).Once()
		mockRepo.On("AddItem", ctx, "user123", "prod1", 1).Return(nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{
			{ProductID: "prod1", Quantity: 1, Product: newTestProduct("prod1", 5, true)},
		}, nil).Once()

		lines, err := cartSvc.AddItem(ctx, "user123", domain.AddItemRequest{ProductID: "prod1"})

		assert.NoError(t, err)
		assert.Len(t, lines, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestCartService_UpdateItem(t *testing.T) {
	mockRepo := new(repoMocks.MockCartRepository)
	mockProducts := new(getterMocks.MockProductGetter)
	cartSvc := NewCartService(mockRepo, mockProducts, "")

	ctx := context.TODO()

	t.Run("Successful quantity update", func(t *testing.T) {
		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()
		mockRepo.On("UpdateItemQuantity", ctx, "user123", "prod1", 3).Return(nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{
			{ProductID: "prod1", Quantity: 3, Product: newTestProduct("prod1", 5, true)},
		}, nil).Once()

		lines, err := cartSvc.UpdateItem(ctx, "user123", "prod1", 3)

		assert.NoError(t, err)
		assert.Equal(t, 3, lines[0].Quantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Quantity above stock is rejected", func(t *testing.T) {
		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()

		lines, err := cartSvc.UpdateItem(ctx, "user123", "prod1", 6)

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "UpdateItemQuantity", ctx, "user123", "prod1", 6)
	})

	t.Run("Item not in cart", func(t *testing.T) {
		mockProducts.On("GetProductByID", ctx, "prod1").Return(newTestProduct("prod1", 5, true), nil).Once()
		mockRepo.On("UpdateItemQuantity", ctx, "user123", "prod1", 2).Return(repository.ErrCartItemNotFound).Once()

		lines, err := cartSvc.UpdateItem(ctx, "user123", "prod1", 2)

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCartService_GetCart(t *testing.T) {
	mockRepo := new(repoMocks.MockCartRepository)
	mockProducts := new(getterMocks.MockProductGetter)
	cartSvc := NewCartService(mockRepo, mockProducts, "")

	ctx := context.TODO()

	t.Run("Lines with deleted or inactive products are filtered out", func(t *testing.T) {
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{
			{ProductID: "prod1", Quantity: 2, Product: newTestProduct("prod1", 5, true)},
			{ProductID: "prod2", Quantity: 1, Product: nil}, // produk sudah dihapus
			{ProductID: "prod3", Quantity: 1, Product: newTestProduct("prod3", 5, false)},
		}, nil).Once()

		lines, err := cartSvc.GetCart(ctx, "user123")

		assert.NoError(t, err)
		assert.Len(t, lines, 1)
		assert.Equal(t, "prod1", lines[0].ProductID)
		// Filtering hanya di hasil baca: tidak ada panggilan tulis ke repo
		mockRepo.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "PruneStaleLines", mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing cart reads as empty", func(t *testing.T) {
		mockRepo.On("ListLines", ctx, "user456").Return([]domain.CartLine{}, nil).Once()

		lines, err := cartSvc.GetCart(ctx, "user456")

		assert.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestCartService_RemoveAndClear(t *testing.T) {
	mockRepo := new(repoMocks.MockCartRepository)
	mockProducts := new(getterMocks.MockProductGetter)
	cartSvc := NewCartService(mockRepo, mockProducts, "")

	ctx := context.TODO()

	t.Run("Remove item returns remaining lines", func(t *testing.T) {
		mockRepo.On("RemoveItem", ctx, "user123", "prod1").Return(nil).Once()
		mockRepo.On("ListLines", ctx, "user123").Return([]domain.CartLine{}, nil).Once()

		lines, err := cartSvc.RemoveItem(ctx, "user123", "prod1")

		assert.NoError(t, err)
		assert.Empty(t, lines)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Remove from non-existent cart", func(t *testing.T) {
		mockRepo.On("RemoveItem", ctx, "user456", "prod1").Return(repository.ErrCartNotFound).Once()

		lines, err := cartSvc.RemoveItem(ctx, "user456", "prod1")

		assert.Nil(t, lines)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("Clear cart", func(t *testing.T) {
		mockRepo.On("ClearItems", ctx, "user123").Return(nil).Once()

		err := cartSvc.ClearCart(ctx, "user123")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCartService_PruneStaleLines(t *testing.T) {
	mockRepo := new(repoMocks.MockCartRepository)
	mockProducts := new(getterMocks.MockProductGetter)
	cartSvc := NewCartService(mockRepo, mockProducts, "")

	ctx := context.TODO()

	t.Run("Sweep delegates to repository", func(t *testing.T) {
		mockRepo.On("PruneStaleLines", ctx).Return(int64(3), nil).Once()

		cartSvc.PruneStaleLines(ctx)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Sweep failure is swallowed", func(t *testing.T) {
		mockRepo.On("PruneStaleLines", ctx).Return(int64(0), errors.New("db down")).Once()

		cartSvc.PruneStaleLines(ctx)

		mockRepo.AssertExpectations(t)
	})
}
