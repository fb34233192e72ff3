package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del libro de inventario sobre PostgreSQL.
// Solo inserta y lee: el libro es append-only y ningún código lo actualiza.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const txnColumns = `id, group_id, product_id, transaction_type, quantity, order_id, user_id, notes, created_at`

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	err := row.Scan(&t.ID, &t.GroupID, &t.ProductID, &t.Type, &t.Quantity, &t.OrderID, &t.UserID, &t.Notes, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una entrada del libro. ID y timestamp los asigna el servidor.
func (r *TransactionRepo) Create(txn *entity.InventoryTransaction) (*entity.InventoryTransaction, error) {
	query := `
		INSERT INTO inventory_transactions (group_id, product_id, transaction_type, quantity, order_id, user_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + txnColumns
	created, err := scanTransaction(r.q.QueryRow(context.Background(), query,
		txn.GroupID, txn.ProductID, txn.Type, txn.Quantity, txn.OrderID, txn.UserID, txn.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("insert inventory transaction: %w", err)
	}
	return created, nil
}

// GetByID obtiene una entrada por ID. Devuelve nil, nil si no existe.
func (r *TransactionRepo) GetByID(id int64) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM inventory_transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory transaction: %w", err)
	}
	return t, nil
}

// ListByProduct devuelve el historial de un producto, más reciente primero.
func (r *TransactionRepo) ListByProduct(productID int64) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM inventory_transactions
		WHERE product_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(query, productID)
}

// List devuelve el historial completo, más reciente primero.
func (r *TransactionRepo) List() ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM inventory_transactions ORDER BY created_at DESC, id DESC`
	return r.list(query)
}

func (r *TransactionRepo) list(query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
