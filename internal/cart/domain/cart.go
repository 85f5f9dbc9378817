package domain

import (
	"time"

	catalogDomain "github.com/lokamart/e-commerce-api/internal/catalog/domain"
)

// CartLine adalah satu baris di keranjang, dengan data produk hasil join.
// Product bernilai nil jika produknya sudah dihapus dari katalog.
type CartLine struct {
	ProductID string                 `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Product   *catalogDomain.Product `json:"product,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// CartSummary dipakai endpoint admin untuk melihat keranjang semua user.
type CartSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,gte=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}
