package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
)

type MockProductGetter struct {
	mock.Mock
}

func (m *MockProductGetter) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
