package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/internal/domain"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and orders.OrderTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ orders.OrderTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los locks de
// fila que los repositorios toman con SELECT FOR UPDATE se sostienen hasta el
// Commit o Rollback; nunca se sueltan a mitad de operación.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallas del sustrato (begin/commit) se reportan como ErrTransactionFailed; los errores
// de dominio de fn pasan sin envolver para que el borde los mapee.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txnRepo := NewTransactionRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(txnRepo, productRepo); err != nil {
		return failure(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTransactionFailed, err)
	}
	return nil
}

// RunOrder inicia una transacción con los repos del motor de pedidos (para CreateOrder
// y los cambios de estado, que tocan pedidos, productos y libro en una sola unidad).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txnRepo := NewTransactionRepository(tx)
	productRepo := NewProductRepository(tx)
	orderRepo := NewOrderRepository(tx)

	if err := fn(txnRepo, productRepo, orderRepo); err != nil {
		return failure(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTransactionFailed, err)
	}
	return nil
}

// failure deja pasar los errores de dominio tal cual y marca el resto
// (deadlock abortado, conexión caída) como falla de transacción reintentable.
func failure(err error) error {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrInsufficientStock,
		domain.ErrInconsistentStock,
		domain.ErrInvalidTransition,
		domain.ErrDuplicate,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
}
