package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/lokamart/e-commerce-api/internal/cart/domain"
	"github.com/lokamart/e-commerce-api/internal/cart/repository"
	catalogDomain "github.com/lokamart/e-commerce-api/internal/catalog/domain"
	catalogRepo "github.com/lokamart/e-commerce-api/internal/catalog/repository"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var (
	ErrProductNotFound   = errors.New("product does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartNotFound      = repository.ErrCartNotFound
	ErrCartItemNotFound  = repository.ErrCartItemNotFound
)

// ProductGetter adalah potongan kecil dari catalog repository yang dibutuhkan cart.
type ProductGetter interface {
	GetProductByID(ctx context.Context, id string) (*catalogDomain.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddItem(ctx context.Context, userID string, req domain.AddItemRequest) ([]domain.CartLine, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error)
	RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, userID string) error

	// Untuk scheduler dan endpoint admin
	PruneStaleLines(ctx context.Context)
	ListCarts(ctx context.Context, page, limit int) ([]domain.CartSummary, int, error)
	GetCartForUser(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type cartServiceImpl struct {
	repo      repository.CartRepository
	products  ProductGetter
	scheduler *cron.Cron
}

// NewCartService memulai sweep pembersihan baris basi sesuai sweepSpec
// (format cron, mis. "@every 10m"). sweepSpec kosong mematikan scheduler,
// dipakai di unit test.
func NewCartService(repo repository.CartRepository, products ProductGetter, sweepSpec string) CartService {
	s := &cartServiceImpl{
		repo:      repo,
		products:  products,
		scheduler: cron.New(),
	}
	if sweepSpec != "" {
		if _, err := s.scheduler.AddFunc(sweepSpec, func() {
			s.PruneStaleLines(context.Background())
		}); err != nil {
			logger.Error("NewCartService: invalid sweep schedule, reconciliation disabled", err)
		} else {
			s.scheduler.Start()
			logger.Info("Cart reconciliation sweep scheduled with spec '%s'", sweepSpec)
		}
	}
	return s
}

// GetCart mem-filter baris yang produknya sudah hilang/nonaktif tanpa
// menulis apa pun; pembersihan persisten dilakukan oleh sweep terjadwal.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterValidLines(lines), nil
}

func filterValidLines(lines []domain.CartLine) []domain.CartLine {
	valid := []domain.CartLine{}
	for _, line := range lines {
		if line.Product != nil && line.Product.IsActive {
			valid = append(valid, line)
		}
	}
	return valid
}

func (s *cartServiceImpl) activeProduct(ctx context.Context, productID string) (*catalogDomain.Product, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req domain.AddItemRequest) ([]domain.CartLine, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.activeProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// Quantity hasil merge dengan baris yang sudah ada tidak boleh melewati stok saat ini
	existing := 0
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if line.ProductID == req.ProductID {
			existing = line.Quantity
			break
		}
	}

	if existing+quantity > product.Stock {
		return nil, fmt.Errorf("%w: only %d left in stock", ErrInsufficientStock, product.Stock)
	}

	if err := s.repo.AddItem(ctx, userID, req.ProductID, quantity); err != nil {
		logger.Error("Svc.AddItem: repo error", err)
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: only %d left in stock", ErrInsufficientStock, product.Stock)
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	return s.repo.ClearItems(ctx, userID)
}

func (s *cartServiceImpl) PruneStaleLines(ctx context.Context) {
	removed, err := s.repo.PruneStaleLines(ctx)
	if err != nil {
		logger.Error("PruneStaleLines: sweep failed", err)
		return
	}
	if removed > 0 {
		logger.Info("Cart sweep removed %d stale lines", removed)
	}
}

func (s *cartServiceImpl) ListCarts(ctx context.Context, page, limit int) ([]domain.CartSummary, int, error) {
	return s.repo.ListCarts(ctx, page, limit)
}

// GetCartForUser dipakai admin console, isinya sama dengan GetCart user biasa.
func (s *cartServiceImpl) GetCartForUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.GetCart(ctx, userID)
}
