package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

var orderSortColumns = map[string]string{
	"total":     "o.total",
	"status":    "o.status",
	"createdAt": "o.created_at",
}

// Create inserts the order, its item snapshots and decrements every product's
// stock in one transaction. The guarded update refuses to go below zero; a
// zero-row result means another order won the remaining stock, and the whole
// transaction rolls back.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, subtotal, tax, shipping, total, status, payment_status,
			payment_method, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, o.UserID, o.Subtotal, o.Tax, o.Shipping, o.Total, o.Status, o.PaymentStatus,
		o.PaymentMethod, addr, o.Notes)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID

		res, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if res.RowsAffected() == 0 {
			return &repository.InsufficientStockError{ProductName: it.Name}
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, name, sku, price, quantity, variant, image)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, it.OrderID, it.ProductID, it.Name, it.SKU, it.Price, it.Quantity, it.Variant, it.Image)
		if err := row.Scan(&it.ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

const orderColumns = `o.id, o.user_id, o.subtotal, o.tax, o.shipping, o.total, o.status,
	o.payment_status, o.payment_method, o.tracking_number, o.shipping_address, o.notes,
	o.shipped_at, o.delivered_at, o.created_at, o.updated_at,
	u.first_name || ' ' || u.last_name, u.email`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	var addr []byte
	err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.Status,
		&o.PaymentStatus, &o.PaymentMethod, &o.TrackingNumber, &addr, &o.Notes,
		&o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt, &o.UserName, &o.UserEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.UserID != "" {
		add("o.user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		add("o.status = $%d", f.Status)
	}
	if f.PaymentStatus != "" {
		add("o.payment_status = $%d", f.PaymentStatus)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM orders o %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	sortCol, ok := orderSortColumns[f.Sort]
	if !ok {
		sortCol = "o.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		%s ORDER BY %s %s LIMIT $%d OFFSET $%d
	`, where, sortCol, dir, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []entity.Order{}
	refs := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
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
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, sku, price, quantity, variant, image
		FROM order_items WHERE order_id = ANY($1) ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.SKU,
			&it.Price, &it.Quantity, &it.Variant, &it.Image); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// UpdateStatus also stamps shipped_at/delivered_at when the status first
// reaches those states.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status, trackingNumber string) (*entity.Order, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			status = $1,
			tracking_number = CASE WHEN $2 <> '' THEN $2 ELSE tracking_number END,
			shipped_at = CASE WHEN $1 = 'shipped' AND shipped_at IS NULL THEN now() ELSE shipped_at END,
			delivered_at = CASE WHEN $1 = 'delivered' AND delivered_at IS NULL THEN now() ELSE delivered_at END,
			updated_at = now()
		WHERE id = $3
	`, status, trackingNumber, id)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
