package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// CreateOrder — заказ, позиции (COPY) и списание остатков в одной транзакции.
// Нехватка остатка по любой позиции откатывает всё и возвращает domain.ErrInsufficientStock.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.OrderNumber == "" {
		return nil, fmt.Errorf("order is empty or order_number is required")
	}
	out := order.Clone()

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, transaction)

	// 1) orders
	if err = transaction.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, customer_id, subtotal, shipping_cost, tax, total, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		out.OrderNumber, out.CustomerID, out.Subtotal, out.ShippingCost, out.Tax, out.Total,
		string(out.Status), string(out.PaymentStatus),
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapError("insert order", err)
	}

	// 2) order_items
	if len(out.Items) > 0 {
		if err = copyItems(ctx, transaction, out.ID, out.Items); err != nil {
			return nil, err
		}
	}

	// 3) остатки: условный UPDATE не даёт уйти в минус
	for _, it := range out.Items {
		tag, err := transaction.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock %s: %w", it.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, domain.ErrInsufficientStock)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &out, nil
}

// ListOrders — все заказы (новые первыми). Два запроса: базовые записи + позиции,
// склейка в памяти с сохранением порядка.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			id, order_number, customer_id, subtotal::float8, shipping_cost::float8, tax::float8, total::float8,
			status, payment_status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 64)
	ids := make([]string, 0, 64)
	for rows.Next() {
		var o domain.Order
		var status, payment string
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
			&status, &payment, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order base: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.PaymentStatus = domain.PaymentStatus(payment)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsByID := make(map[string][]domain.OrderItem, len(orders))
	iRows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, name, price::float8, quantity
		FROM order_items
		WHERE order_id = ANY($1::text[])
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer iRows.Close()

	for iRows.Next() {
		var id string
		var it domain.OrderItem
		if err := iRows.Scan(&id, &it.ProductID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		itemsByID[id] = append(itemsByID[id], it)
	}
	if err := iRows.Err(); err != nil {
		return nil, fmt.Errorf("order items rows: %w", err)
	}

	for i := range orders {
		orders[i].Items = itemsByID[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return mapError("update order status", err)
	}
	return expectOne(tag, "order", id)
}

// copyItems — вставка позиций через COPY (CopyFromRows); быстрее, чем INSERT в цикле.
func copyItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.OrderItem) error {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{orderID, i, item.ProductID, item.Name, item.Price, item.Quantity})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "position", "product_id", "name", "price", "quantity"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy order items: %w", err)
	}
	return nil
}
