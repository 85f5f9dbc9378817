package service

import (
	"context"
	"errors"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/catalog/repository"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var ErrProductNotFound = errors.New("product does not exist")

type ProductService interface {
	ListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error)
	GetProductDetails(ctx context.Context, productID string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Admin
	AdminListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error)
	AdminGetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error) {
	q.IncludeHidden = false
	return s.repo.ListProducts(ctx, q)
}

// GetProductDetails mengembalikan not found juga untuk produk nonaktif,
// produk yang disembunyikan admin tidak boleh terlihat publik.
func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *productServiceImpl) AdminListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error) {
	q.IncludeHidden = true
	return s.repo.ListProducts(ctx, q)
}

func (s *productServiceImpl) AdminGetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Discount:    req.Discount,
		IsActive:    true,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err)
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Images != nil {
		product.Images = req.Images
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		logger.Error("Svc.UpdateProduct: repo error", err)
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	err := s.repo.SoftDeleteProduct(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *productServiceImpl) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	cat := &domain.Category{Name: name, Description: description}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		logger.Error("Svc.CreateCategory: repo error", err)
		return nil, err
	}
	return cat, nil
}
