package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error) {
	args := m.Called(ctx, q)
	if list := args.Get(0); list != nil {
		return list.([]domain.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	if p != nil && args.Error(0) == nil {
		p.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateCategory(ctx context.Context, cat *domain.Category) error {
	args := m.Called(ctx, cat)
	if cat != nil && args.Error(0) == nil {
		cat.ID = "mock-category-id"
	}
	return args.Error(0)
}
