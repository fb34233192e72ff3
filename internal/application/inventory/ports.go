package inventory

import (
	"context"

	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: o todos los
// cambios de la función se confirman, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error) error
}
