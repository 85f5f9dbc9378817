package domain

import (
	"time"
)

// Status pesanan. Admin bebas memindahkan status di antara nilai-nilai ini;
// satu-satunya jalur yang dijaga ketat adalah pembatalan.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusShipping  = "shipping"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	MethodCOD          = "cod"
	MethodBankTransfer = "bank_transfer"
	MethodCreditCard   = "credit_card"
	MethodEWallet      = "e_wallet"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusShipping, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case MethodCOD, MethodBankTransfer, MethodCreditCard, MethodEWallet:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
}

// OrderItem membekukan harga dan discount saat checkout; perubahan produk
// setelahnya tidak mengubah nilai pesanan.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage,omitempty"`
	Price        float64 `json:"price"`
	Discount     int     `json:"discount"`
	Quantity     int     `json:"quantity"`
}

func (i *OrderItem) Subtotal() float64 {
	return i.Price * (1 - float64(i.Discount)/100) * float64(i.Quantity)
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Note            string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PaymentMethod kosong berarti cod.
type CreateOrderRequest struct {
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
	Note            string          `json:"notes"`
}

// Keduanya opsional; field yang kosong tidak diubah.
type UpdateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

type ListOrdersQuery struct {
	UserID        string // kosong = semua user (admin)
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
}
