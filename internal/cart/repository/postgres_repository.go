package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lokamart/e-commerce-api/internal/cart/domain"
	catalogDomain "github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("product is not in the cart")
)

type CartRepository interface {
	// ListLines mengembalikan semua baris cart user, termasuk baris yang
	// produknya sudah hilang/nonaktif (Product == nil atau IsActive false).
	// Cart yang belum pernah dibuat dianggap kosong, bukan error.
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)

	// AddItem membuat cart jika perlu dan merge quantity untuk produk yang sama.
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearItems(ctx context.Context, userID string) error

	// PruneStaleLines menghapus baris yang menunjuk produk terhapus/nonaktif,
	// dipanggil oleh sweep terjadwal, bukan oleh path baca.
	PruneStaleLines(ctx context.Context) (int64, error)

	ListCarts(ctx context.Context, page, limit int) ([]domain.CartSummary, int, error)
}

type postgresCartRepository struct {
	db *sql.DB
}

func NewPostgresCartRepository(db *sql.DB) CartRepository {
	return &postgresCartRepository{db: db}
}

func (r *postgresCartRepository) ListLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	query := `
        SELECT ci.product_id, ci.quantity, ci.updated_at,
               p.id, p.name, p.description, p.price, p.stock, p.discount, p.is_active,
               p.sold, p.rating, p.reviews_count, p.category_id, p.images, p.created_at, p.updated_at
        FROM cart_items ci
        JOIN carts c ON ci.cart_id = c.id
        LEFT JOIN products p ON ci.product_id = p.id
        WHERE c.user_id = $1
        ORDER BY ci.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("ListLines: query failed", err)
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		var p catalogDomain.Product
		var pID, pName, pDescription sql.NullString
		var pPrice, pRating sql.NullFloat64
		var pStock, pDiscount, pSold, pReviews sql.NullInt64
		var pActive sql.NullBool
		var pCategoryID sql.NullString
		var rawImages []byte
		var pCreatedAt, pUpdatedAt sql.NullTime

		err := rows.Scan(
			&line.ProductID, &line.Quantity, &line.UpdatedAt,
			&pID, &pName, &pDescription, &pPrice, &pStock, &pDiscount, &pActive,
			&pSold, &pRating, &pReviews, &pCategoryID, &rawImages, &pCreatedAt, &pUpdatedAt,
		)
		if err != nil {
			logger.Error("ListLines: scan failed", err)
			return nil, err
		}

		if pID.Valid {
			p.ID = pID.String
			p.Name = pName.String
			p.Description = pDescription.String
			p.Price = pPrice.Float64
			p.Stock = int(pStock.Int64)
			p.Discount = int(pDiscount.Int64)
			p.IsActive = pActive.Bool
			p.Sold = int(pSold.Int64)
			p.Rating = pRating.Float64
			p.ReviewsCount = int(pReviews.Int64)
			p.CategoryID = pCategoryID.String
			p.CreatedAt = pCreatedAt.Time
			p.UpdatedAt = pUpdatedAt.Time
			if len(rawImages) > 0 {
				if err := json.Unmarshal(rawImages, &p.Images); err != nil {
					return nil, fmt.Errorf("failed to decode product images: %w", err)
				}
			}
			if p.Images == nil {
				p.Images = []catalogDomain.Image{}
			}
			line.Product = &p
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *postgresCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("AddItem: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	cartID, err := findOrCreateCart(ctx, tx, userID)
	if err != nil {
		return err
	}

	// Merge quantity kalau produk sudah ada di cart
	query := `
        INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (cart_id, product_id) DO UPDATE SET
        quantity = cart_items.quantity + EXCLUDED.quantity,
        updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, query, cartID, productID, quantity); err != nil {
		logger.Error("AddItem: upsert failed", err)
		return err
	}

	return tx.Commit()
}

func findOrCreateCart(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("findOrCreateCart: query failed", err)
		return "", err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO carts (user_id, created_at, updated_at) VALUES ($1, NOW(), NOW()) RETURNING id`,
		userID,
	).Scan(&cartID)
	if err != nil {
		logger.Error("findOrCreateCart: insert failed", err)
		return "", err
	}
	return cartID, nil
}

func (r *postgresCartRepository) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `
        UPDATE cart_items ci SET quantity = $1, updated_at = NOW()
        FROM carts c
        WHERE ci.cart_id = c.id AND c.user_id = $2 AND ci.product_id = $3`
	res, err := r.db.ExecContext(ctx, query, quantity, userID, productID)
	if err != nil {
		logger.Error("UpdateItemQuantity: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *postgresCartRepository) cartIDForUser(ctx context.Context, userID string) (string, error) {
	var cartID string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrCartNotFound
		}
		logger.Error("cartIDForUser: query failed", err)
		return "", err
	}
	return cartID, nil
}

// RemoveItem idempotent terhadap item: tidak error jika produknya memang tidak ada di cart.
func (r *postgresCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	cartID, err := r.cartIDForUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		logger.Error("RemoveItem: exec failed", err)
	}
	return err
}

func (r *postgresCartRepository) ClearItems(ctx context.Context, userID string) error {
	cartID, err := r.cartIDForUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		logger.Error("ClearItems: exec failed", err)
	}
	return err
}

func (r *postgresCartRepository) PruneStaleLines(ctx context.Context) (int64, error) {
	query := `
        DELETE FROM cart_items ci
        WHERE NOT EXISTS (
            SELECT 1 FROM products p WHERE p.id = ci.product_id AND p.is_active = TRUE
        )`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.Error("PruneStaleLines: exec failed", err)
		return 0, err
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}

func (r *postgresCartRepository) ListCarts(ctx context.Context, page, limit int) ([]domain.CartSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := `
        SELECT c.id, c.user_id, COUNT(ci.id), c.created_at, c.updated_at
        FROM carts c
        LEFT JOIN cart_items ci ON ci.cart_id = c.id
        GROUP BY c.id
        ORDER BY c.updated_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		logger.Error("ListCarts: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	carts := []domain.CartSummary{}
	for rows.Next() {
		var cs domain.CartSummary
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.ItemCount, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			logger.Error("ListCarts: scan failed", err)
			return nil, 0, err
		}
		carts = append(carts, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM carts`).Scan(&total); err != nil {
		logger.Error("ListCarts: count failed", err)
		return nil, 0, err
	}
	return carts, total, nil
}
