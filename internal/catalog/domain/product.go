package domain

import (
	"time"
)

type Image struct {
	URL string `json:"url"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"` // Menggunakan float untuk kemudahan, decimal lebih baik untuk uang
	Stock        int       `json:"stock"`
	Discount     int       `json:"discount"` // Persentase 0-100
	IsActive     bool      `json:"isActive"`
	Sold         int       `json:"sold"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviewsCount"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Images       []Image   `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FinalPrice menghitung harga setelah discount.
func (p *Product) FinalPrice() float64 {
	return p.Price * (1 - float64(p.Discount)/100)
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter untuk listing produk publik maupun admin.
type ListProductsQuery struct {
	CategoryID    string
	Search        string
	Page          int
	Limit         int
	Sort          string
	Order         string
	IncludeHidden bool // true hanya untuk admin
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Discount    int     `json:"discount" binding:"gte=0,lte=100"`
	CategoryID  string  `json:"categoryId" binding:"required"`
	Images      []Image `json:"images"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Discount    *int     `json:"discount" binding:"omitempty,gte=0,lte=100"`
	CategoryID  *string  `json:"categoryId"`
	IsActive    *bool    `json:"isActive"`
	Images      []Image  `json:"images"`
}
