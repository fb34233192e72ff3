package orders

import (
	"context"
	"time"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el motor de pedidos. Un pedido y todas sus reservas
// se confirman o se revierten como una sola unidad.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockLedger es el puerto hacia el libro mayor de productos. El motor de pedidos
// compone estas primitivas dentro de su propia transacción; cada una bloquea la
// fila del producto y escribe su entrada de auditoría.
type StockLedger interface {
	ReserveInTx(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		productID, quantity, orderID int64,
		groupID string,
		now time.Time,
	) (*entity.Product, error)
	ReleaseInTx(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		productID, quantity, orderID int64,
		userID *int64,
		groupID string,
		now time.Time,
	) (*entity.Product, error)
	FinalizeSaleInTx(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		productID, quantity, orderID int64,
		userID *int64,
		groupID string,
		now time.Time,
	) (*entity.Product, error)
}

// EventPublisher publica eventos de dominio después del commit. Fire-and-forget:
// el motor nunca depende del resultado y un publisher nil desactiva la publicación.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event Event)
}

// IdempotencyStore deduplica creaciones de pedido por Idempotency-Key (capa de borde).
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (orderID int64, found bool, err error)
	Set(ctx context.Context, key string, orderID int64) error
}
