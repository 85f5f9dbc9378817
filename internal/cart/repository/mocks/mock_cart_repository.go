package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/cart/domain"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	if lines := args.Get(0); lines != nil {
		return lines.([]domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) PruneStaleLines(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ListCarts(ctx context.Context, page, limit int) ([]domain.CartSummary, int, error) {
	args := m.Called(ctx, page, limit)
	if list := args.Get(0); list != nil {
		return list.([]domain.CartSummary), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}
