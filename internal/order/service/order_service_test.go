package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cartDomain "github.com/lokamart/e-commerce-api/internal/cart/domain"
	cartMocks "github.com/lokamart/e-commerce-api/internal/cart/repository/mocks"
	catalogDomain "github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/order/domain"
	"github.com/lokamart/e-commerce-api/internal/order/events"
	"github.com/lokamart/e-commerce-api/internal/order/repository"
	repoMocks "github.com/lokamart/e-commerce-api/internal/order/repository/mocks"
	pubMocks "github.com/lokamart/e-commerce-api/internal/order/service/mocks"
)

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
		Address:  "Jl. Merdeka No. 1",
		City:     "Jakarta",
	}
}

func cartLine(productID string, qty int, price float64, discount, stock int, active bool) cartDomain.CartLine {
	return cartDomain.CartLine{
		ProductID: productID,
		Quantity:  qty,
		Product: &catalogDomain.Product{
			ID:       productID,
			Name:     "Produk " + productID,
			Price:    price,
			Stock:    stock,
			Discount: discount,
			IsActive: active,
			Images:   []catalogDomain.Image{{URL: "https://img.example/" + productID + ".jpg"}},
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.TODO()
	req := domain.CreateOrderRequest{PaymentMethod: domain.MethodBankTransfer, ShippingAddress: testAddress()}

	t.Run("Successful order freezes discounted prices", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		// 100000 dengan discount 20% x 2 = 160000
		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 2, 100000, 20, 5, true),
		}, nil).Once()
		mockRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).Return(nil).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, 160000.0, order.TotalAmount)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, 100000.0, order.Items[0].Price)
		assert.Equal(t, 20, order.Items[0].Discount)
		assert.Equal(t, "Produk prod1", order.Items[0].ProductName)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Empty cart is rejected", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{}, nil).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrEmptyCart)
		mockRepo.AssertNotCalled(t, "CreateOrder", ctx, mock.Anything)
	})

	t.Run("Payment method defaults to cod", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 1, 50000, 0, 5, true),
		}, nil).Once()
		mockRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).Return(nil).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", domain.CreateOrderRequest{ShippingAddress: testAddress()})

		assert.NoError(t, err)
		assert.Equal(t, domain.MethodCOD, order.PaymentMethod)
	})

	t.Run("Invalid payment method is rejected", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		badReq := domain.CreateOrderRequest{PaymentMethod: "barter", ShippingAddress: testAddress()}

		order, err := orderSvc.CreateOrder(ctx, "user123", badReq)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("Inactive product in cart fails the order", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 2, 100000, 20, 5, true),
			cartLine("prod2", 1, 50000, 0, 5, false),
		}, nil).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.Contains(t, err.Error(), "prod2")
		mockRepo.AssertNotCalled(t, "CreateOrder", ctx, mock.Anything)
	})

	t.Run("Quantity above stock fails fast", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 10, 100000, 20, 5, true),
		}, nil).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "CreateOrder", ctx, mock.Anything)
	})

	t.Run("Conditional decrement loss inside the transaction surfaces as conflict", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 2, 100000, 20, 5, true),
		}, nil).Once()
		mockRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).
			Return(repository.ErrInsufficientStock).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockPub.AssertNotCalled(t, "Publish", ctx, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Broker failure does not fail the order", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockCarts.On("ListLines", ctx, "user123").Return([]cartDomain.CartLine{
			cartLine("prod1", 1, 100000, 0, 5, true),
		}, nil).Once()
		mockRepo.On("CreateOrder", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).
			Return(errors.New("broker unreachable")).Once()

		order, err := orderSvc.CreateOrder(ctx, "user123", req)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		mockPub.AssertExpectations(t)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.TODO()

	existing := func() *domain.Order {
		return &domain.Order{
			ID:            "order-1",
			UserID:        "user123",
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
			TotalAmount:   160000,
		}
	}

	t.Run("Payment status paid pulls order status to paid", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "").Return(existing(), nil).Once()
		mockRepo.On("UpdateStatus", ctx, "order-1", domain.StatusPaid, domain.PaymentPaid).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).Return(nil).Once()

		order, err := orderSvc.UpdateStatus(ctx, "order-1", "", domain.UpdateOrderStatusRequest{
			Status:        domain.StatusConfirmed,
			PaymentStatus: domain.PaymentPaid,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, order.Status)
		assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unrecognized values are ignored, not rejected", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "").Return(existing(), nil).Once()
		mockRepo.On("UpdateStatus", ctx, "order-1", domain.StatusPending, domain.PaymentPending).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).Return(nil).Once()

		order, err := orderSvc.UpdateStatus(ctx, "order-1", "", domain.UpdateOrderStatusRequest{
			Status: "teleported",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown order", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-x", "").Return(nil, repository.ErrOrderNotFound).Once()

		order, err := orderSvc.UpdateStatus(ctx, "order-x", "", domain.UpdateOrderStatusRequest{Status: domain.StatusConfirmed})

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Owner can update their own order", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "user123").Return(existing(), nil).Once()
		mockRepo.On("UpdateStatus", ctx, "order-1", domain.StatusPaid, domain.PaymentPaid).Return(nil).Once()
		mockPub.On("Publish", ctx, mock.AnythingOfType("events.OrderEvent")).Return(nil).Once()

		order, err := orderSvc.UpdateStatus(ctx, "order-1", "user123", domain.UpdateOrderStatusRequest{
			PaymentStatus: domain.PaymentPaid,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, order.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Other user's order reads as not found", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "user456").Return(nil, repository.ErrOrderNotFound).Once()

		order, err := orderSvc.UpdateStatus(ctx, "order-1", "user456", domain.UpdateOrderStatusRequest{
			PaymentStatus: domain.PaymentPaid,
		})

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		mockRepo.AssertNotCalled(t, "UpdateStatus", ctx, "order-1", mock.Anything, mock.Anything)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	ctx := context.TODO()

	t.Run("Cancel restores payment paid to refunded", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "user123").Return(&domain.Order{
			ID:            "order-1",
			UserID:        "user123",
			Status:        domain.StatusPaid,
			PaymentStatus: domain.PaymentPaid,
		}, nil).Once()
		mockRepo.On("CancelOrder", ctx, "order-1").Return(nil).Once()
		mockPub.On("Publish", ctx, mock.MatchedBy(func(e events.OrderEvent) bool {
			return e.Type == events.TypeOrderCancelled && e.PaymentStatus == domain.PaymentRefunded
		})).Return(nil).Once()

		order, err := orderSvc.CancelOrder(ctx, "order-1", "user123")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Equal(t, domain.PaymentRefunded, order.PaymentStatus)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Delivered order cannot be cancelled", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "user123").Return(&domain.Order{
			ID:     "order-1",
			UserID: "user123",
			Status: domain.StatusDelivered,
		}, nil).Once()
		mockRepo.On("CancelOrder", ctx, "order-1").Return(repository.ErrOrderNotCancellable).Once()

		order, err := orderSvc.CancelOrder(ctx, "order-1", "user123")

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderNotCancellable)
		mockPub.AssertNotCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("Other user's order reads as not found", func(t *testing.T) {
		mockRepo := new(repoMocks.MockOrderRepository)
		mockCarts := new(cartMocks.MockCartRepository)
		mockPub := new(pubMocks.MockEventPublisher)
		orderSvc := NewOrderService(mockRepo, mockCarts, mockPub)

		mockRepo.On("GetOrderByID", ctx, "order-1", "user456").Return(nil, repository.ErrOrderNotFound).Once()

		order, err := orderSvc.CancelOrder(ctx, "order-1", "user456")

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		mockRepo.AssertNotCalled(t, "CancelOrder", ctx, "order-1")
	})
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := domain.OrderItem{Price: 100000, Discount: 20, Quantity: 2}
	assert.Equal(t, 160000.0, item.Subtotal())

	noDiscount := domain.OrderItem{Price: 25000, Discount: 0, Quantity: 3}
	assert.Equal(t, 75000.0, noDiscount.Subtotal())
}
