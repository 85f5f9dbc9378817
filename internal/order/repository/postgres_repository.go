package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lokamart/e-commerce-api/internal/order/domain"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

type OrderRepository interface {
	// CreateOrder menyimpan order beserta item-nya, mengurangi stok tiap
	// produk, dan mengosongkan cart user dalam SATU transaksi. Stok yang
	// tidak cukup membatalkan seluruh transaksi.
	CreateOrder(ctx context.Context, order *domain.Order) error

	// GetOrderByID: userID kosong berarti akses admin (tanpa filter kepemilikan).
	GetOrderByID(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ListOrders(ctx context.Context, q domain.ListOrdersQuery) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID, status, paymentStatus string) error

	// CancelOrder mengembalikan stok dan sold tiap item lalu menandai order
	// cancelled (payment paid -> refunded) dalam satu transaksi.
	CancelOrder(ctx context.Context, orderID string) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateOrder: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	insertOrder := `
        INSERT INTO orders (id, user_id, total, status, payment_method, payment_status,
            shipping_full_name, shipping_phone, shipping_address, shipping_city,
            shipping_district, shipping_ward, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
        RETURNING created_at, updated_at`
	addr := order.ShippingAddress
	err = tx.QueryRowContext(ctx, insertOrder,
		order.ID, order.UserID, order.TotalAmount, order.Status, order.PaymentMethod, order.PaymentStatus,
		addr.FullName, addr.Phone, addr.Address, addr.City, addr.District, addr.Ward, order.Note,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		logger.Error("CreateOrder: insert order failed", err)
		return err
	}

	// Pengurangan stok bersyarat: baris dengan stok kurang tidak ter-update,
	// rowsAffected == 0 berarti checkout gagal dan transaksi di-rollback.
	decrementStock := `
        UPDATE products
        SET stock = stock - $1, sold = sold + $1, updated_at = NOW()
        WHERE id = $2 AND is_active = TRUE AND stock >= $1`
	insertItem := `
        INSERT INTO order_items (order_id, product_id, quantity, price, discount, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		res, err := tx.ExecContext(ctx, decrementStock, item.Quantity, item.ProductID)
		if err != nil {
			logger.Error("CreateOrder: stock decrement failed", err)
			return err
		}
		rowsAffected, _ := res.RowsAffected()
		if rowsAffected == 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductName)
		}

		err = tx.QueryRowContext(ctx, insertItem,
			order.ID, item.ProductID, item.Quantity, item.Price, item.Discount,
		).Scan(&item.ID)
		if err != nil {
			logger.Error("CreateOrder: insert item failed", err)
			return err
		}
	}

	clearCart := `
        DELETE FROM cart_items ci
        USING carts c
        WHERE ci.cart_id = c.id AND c.user_id = $1`
	if _, err := tx.ExecContext(ctx, clearCart, order.UserID); err != nil {
		logger.Error("CreateOrder: cart clear failed", err)
		return err
	}

	return tx.Commit()
}

const orderColumns = `
    o.id, o.user_id, o.total, o.status, o.payment_method, o.payment_status,
    o.shipping_full_name, o.shipping_phone, o.shipping_address,
    COALESCE(o.shipping_city, ''), COALESCE(o.shipping_district, ''), COALESCE(o.shipping_ward, ''),
    COALESCE(o.notes, ''), o.created_at, o.updated_at`

func scanOrder(scanner interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var o domain.Order
	err := scanner.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Address,
		&o.ShippingAddress.City, &o.ShippingAddress.District, &o.ShippingAddress.Ward,
		&o.Note, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`
	args := []interface{}{orderID}
	if userID != "" {
		query += ` AND o.user_id = $2`
		args = append(args, userID)
	}

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}

	if err := r.attachItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, q domain.ListOrdersQuery) ([]domain.Order, int, error) {
	page := q.Page
	limit := q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1
	if q.UserID != "" {
		where += fmt.Sprintf(" AND o.user_id = $%d", argPos)
		args = append(args, q.UserID)
		argPos++
	}
	if q.Status != "" {
		where += fmt.Sprintf(" AND o.status = $%d", argPos)
		args = append(args, q.Status)
		argPos++
	}
	if q.PaymentStatus != "" {
		where += fmt.Sprintf(" AND o.payment_status = $%d", argPos)
		args = append(args, q.PaymentStatus)
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("ListOrders: count failed", err)
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders o` + where +
		fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListOrders: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	refs := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			logger.Error("ListOrders: scan failed", err)
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range orders {
		refs = append(refs, &orders[i])
	}

	if err := r.attachItems(ctx, refs); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// attachItems memuat item semua order sekaligus, satu query untuk satu halaman.
func (r *postgresOrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = []domain.OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.discount,
               COALESCE(p.name, ''), COALESCE(p.images->0->>'url', '')
        FROM order_items oi
        LEFT JOIN products p ON oi.product_id = p.id
        WHERE oi.order_id = ANY($1)
        ORDER BY oi.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("attachItems: query failed", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.Price, &item.Discount, &item.ProductName, &item.ProductImage)
		if err != nil {
			logger.Error("attachItems: scan failed", err)
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, orderID, status, paymentStatus string) error {
	query := `
        UPDATE orders
        SET status = $1, payment_status = $2, updated_at = NOW()
        WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, paymentStatus, orderID)
	if err != nil {
		logger.Error("UpdateStatus: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresOrderRepository) CancelOrder(ctx context.Context, orderID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CancelOrder: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	// Kunci baris order supaya dua pembatalan paralel tidak mengembalikan stok dua kali
	var status, paymentStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT status, payment_status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&status, &paymentStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		logger.Error("CancelOrder: lock failed", err)
		return err
	}

	if status == domain.StatusDelivered || status == domain.StatusCancelled {
		return fmt.Errorf("%w: status is %s", ErrOrderNotCancellable, status)
	}

	restoreStock := `
        UPDATE products p
        SET stock = p.stock + oi.quantity,
            sold = GREATEST(p.sold - oi.quantity, 0),
            updated_at = NOW()
        FROM order_items oi
        WHERE oi.order_id = $1 AND oi.product_id = p.id`
	if _, err := tx.ExecContext(ctx, restoreStock, orderID); err != nil {
		logger.Error("CancelOrder: stock restore failed", err)
		return err
	}

	newPaymentStatus := paymentStatus
	if paymentStatus == domain.PaymentPaid {
		newPaymentStatus = domain.PaymentRefunded
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3`,
		domain.StatusCancelled, newPaymentStatus, orderID)
	if err != nil {
		logger.Error("CancelOrder: update failed", err)
		return err
	}

	return tx.Commit()
}
