package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/order/domain"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, q domain.ListOrdersQuery) ([]domain.Order, int, error) {
	args := m.Called(ctx, q)
	if list := args.Get(0); list != nil {
		return list.([]domain.Order), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID, status, paymentStatus string) error {
	args := m.Called(ctx, orderID, status, paymentStatus)
	return args.Error(0)
}

func (m *MockOrderRepository) CancelOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
