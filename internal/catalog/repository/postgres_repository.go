package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Kolom sort yang diizinkan, untuk mencegah injection lewat query param.
var allowedSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"sold":      "sold",
	"rating":    "rating",
	"name":      "name",
}

type ProductRepository interface {
	ListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	SoftDeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, cat *domain.Category) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.stock, p.discount, p.is_active,
       p.sold, p.rating, p.reviews_count, p.category_id, c.name, p.images, p.created_at, p.updated_at`

func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	var p domain.Product
	var rawImages []byte
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Discount, &p.IsActive,
		&p.Sold, &p.Rating, &p.ReviewsCount, &p.CategoryID, &p.CategoryName, &rawImages,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rawImages) > 0 {
		if err := json.Unmarshal(rawImages, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to decode product images: %w", err)
		}
	}
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	return &p, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, q domain.ListProductsQuery) ([]domain.Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if !q.IncludeHidden {
		where += ` AND p.is_active = TRUE`
	}
	if q.CategoryID != "" {
		where += fmt.Sprintf(` AND p.category_id = $%d`, argPos)
		args = append(args, q.CategoryID)
		argPos++
	}
	if q.Search != "" {
		where += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+q.Search+"%")
		argPos++
	}

	sortColumn, ok := allowedSortColumns[q.Sort]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if q.Order == "asc" {
		direction = "ASC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := `SELECT ` + productColumns + ` FROM products p JOIN categories c ON p.category_id = c.id` +
		where + fmt.Sprintf(` ORDER BY p.%s %s LIMIT $%d OFFSET $%d`, sortColumn, direction, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListProducts: rows iteration error", err)
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM products p` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args[:argPos-1]...).Scan(&total); err != nil {
		logger.Error("ListProducts: count failed", err)
		return nil, 0, err
	}
	return products, total, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p JOIN categories c ON p.category_id = c.id WHERE p.id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, description, price, stock, discount, is_active, category_id, images, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`

	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	rawImages, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.Discount, p.IsActive, p.CategoryID, rawImages,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrCategoryNotFound
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
              SET name = $1, description = $2, price = $3, stock = $4, discount = $5,
                  is_active = $6, category_id = $7, images = $8, updated_at = NOW()
              WHERE id = $9 RETURNING updated_at`

	rawImages, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.Discount, p.IsActive, p.CategoryID, rawImages, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrCategoryNotFound
		}
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	return nil
}

// SoftDeleteProduct menonaktifkan produk, tidak pernah menghapus row (riwayat order perlu referensinya).
func (r *postgresProductRepository) SoftDeleteProduct(ctx context.Context, id string) error {
	query := `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("SoftDeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM categories ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListCategories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			logger.Error("ListCategories: scan failed", err)
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *postgresProductRepository) CreateCategory(ctx context.Context, cat *domain.Category) error {
	query := `INSERT INTO categories (name, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`

	cat.CreatedAt = time.Now()
	cat.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query, cat.Name, cat.Description, cat.CreatedAt, cat.UpdatedAt).
		Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		logger.Error("CreateCategory: failed to insert category", err)
		return err
	}
	return nil
}
