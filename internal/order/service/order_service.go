package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	cartRepo "github.com/lokamart/e-commerce-api/internal/cart/repository"
	"github.com/lokamart/e-commerce-api/internal/order/domain"
	"github.com/lokamart/e-commerce-api/internal/order/events"
	"github.com/lokamart/e-commerce-api/internal/order/repository"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductUnavailable   = errors.New("a product in the cart is no longer available")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInsufficientStock    = repository.ErrInsufficientStock
	ErrOrderNotFound        = repository.ErrOrderNotFound
	ErrOrderNotCancellable  = repository.ErrOrderNotCancellable
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ListOrders(ctx context.Context, q domain.ListOrdersQuery) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID, userID string, req domain.UpdateOrderStatusRequest) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, userID string) (*domain.Order, error)
}

type orderServiceImpl struct {
	repo      repository.OrderRepository
	carts     cartRepo.CartRepository
	publisher events.Publisher
}

func NewOrderService(repo repository.OrderRepository, carts cartRepo.CartRepository, publisher events.Publisher) OrderService {
	return &orderServiceImpl{repo: repo, carts: carts, publisher: publisher}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.MethodCOD
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Harga dan discount dibekukan di sini; perubahan produk setelah checkout
	// tidak menyentuh order. Guard stok final ada di repository (conditional update).
	items := make([]domain.OrderItem, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		if line.Product == nil || !line.Product.IsActive {
			return nil, fmt.Errorf("%w: product %s", ErrProductUnavailable, line.ProductID)
		}
		if line.Quantity > line.Product.Stock {
			return nil, fmt.Errorf("%w: product %s has %d left", ErrInsufficientStock, line.Product.Name, line.Product.Stock)
		}

		item := domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Price:       line.Product.Price,
			Discount:    line.Product.Discount,
			Quantity:    line.Quantity,
		}
		if len(line.Product.Images) > 0 {
			item.ProductImage = line.Product.Images[0].URL
		}
		items = append(items, item)
		total += item.Subtotal()
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     math.Round(total*100) / 100,
		Status:          domain.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	logger.Info("Order %s created for user %s, total %.2f", order.ID, userID, order.TotalAmount)

	s.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, orderID, userID)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, q domain.ListOrdersQuery) ([]domain.Order, int, error) {
	return s.repo.ListOrders(ctx, q)
}

// UpdateStatus menerima status dan/atau paymentStatus baru. Nilai yang tidak
// dikenal diabaikan, bukan ditolak, supaya klien lama tidak rusak. Payment
// status 'paid' selalu menarik status order ke 'paid'. userID kosong berarti
// akses admin; selain itu order milik user lain terbaca sebagai not found.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, userID string, req domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	newStatus := order.Status
	newPayment := order.PaymentStatus
	if req.Status != "" && domain.ValidStatus(req.Status) {
		newStatus = req.Status
	}
	if req.PaymentStatus != "" && domain.ValidPaymentStatus(req.PaymentStatus) {
		newPayment = req.PaymentStatus
	}
	if newPayment == domain.PaymentPaid {
		newStatus = domain.StatusPaid
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus, newPayment); err != nil {
		return nil, err
	}
	order.Status = newStatus
	order.PaymentStatus = newPayment

	s.publish(ctx, events.TypeOrderStatusUpdated, order)
	return order, nil
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	// Cek kepemilikan dulu supaya user lain mendapat 404, bukan 409
	order, err := s.repo.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CancelOrder(ctx, orderID); err != nil {
		return nil, err
	}

	order.Status = domain.StatusCancelled
	if order.PaymentStatus == domain.PaymentPaid {
		order.PaymentStatus = domain.PaymentRefunded
	}

	s.publish(ctx, events.TypeOrderCancelled, order)
	return order, nil
}

// publish bersifat best-effort: kegagalan broker tidak menggagalkan request.
func (s *orderServiceImpl) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := events.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish order event", err)
	}
}
