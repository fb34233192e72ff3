package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_id, status, created_at, updated_at, paid_at, delivered_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt, &o.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta el pedido; ID y timestamps los asigna el servidor.
func (r *OrderRepo) Create(customerID int64, status string) (*entity.Order, error) {
	query := `
		INSERT INTO orders (customer_id, status)
		VALUES ($1, $2)
		RETURNING ` + orderColumns
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, customerID, status))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// CreateItem inserta una línea de pedido. Las líneas no se actualizan jamás.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) (*entity.OrderItem, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, product_id, quantity, unit_price`
	var out entity.OrderItem
	err := r.q.QueryRow(context.Background(), query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
	).Scan(&out.ID, &out.OrderID, &out.ProductID, &out.Quantity, &out.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("insert order item: %w", err)
	}
	return &out, nil
}

// GetByID obtiene un pedido con sus líneas. Devuelve nil, nil si no existe.
func (r *OrderRepo) GetByID(id int64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.ListItems(id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// GetForUpdate obtiene el pedido con sus líneas y bloquea la fila del pedido
// (SELECT FOR UPDATE) hasta el commit/rollback de la transacción en curso.
func (r *OrderRepo) GetForUpdate(id int64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	items, err := r.ListItems(id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListItems devuelve las líneas de un pedido en su orden de inserción.
func (r *OrderRepo) ListItems(orderID int64) ([]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByCustomer devuelve los pedidos de un cliente con sus líneas, más recientes primero.
func (r *OrderRepo) ListByCustomer(customerID int64) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.list(query, customerID)
}

// List devuelve todos los pedidos con sus líneas, más recientes primero.
func (r *OrderRepo) List() ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(query)
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.ListItems(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// UpdateStatus escribe estado y timestamps del pedido. paid_at/delivered_at solo
// se tocan si vienen en upd; nunca se retroceden.
func (r *OrderRepo) UpdateStatus(id int64, upd repository.StatusUpdate) error {
	query := `
		UPDATE orders
		SET status = $2,
		    updated_at = now(),
		    paid_at = COALESCE($3, paid_at),
		    delivered_at = COALESCE($4, delivered_at)
		WHERE id = $1`
	ct, err := r.q.Exec(context.Background(), query, id, upd.Status, upd.PaidAt, upd.DeliveredAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update order status: pedido %d no existe", id)
	}
	return nil
}
