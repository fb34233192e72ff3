package repository

import "github.com/jhoicas/omnitrack-api/internal/domain/entity"

// TransactionRepository puerto del libro de inventario. Append-only por diseño:
// no existen métodos de actualización ni de borrado.
type TransactionRepository interface {
	Create(txn *entity.InventoryTransaction) (*entity.InventoryTransaction, error)
	GetByID(id int64) (*entity.InventoryTransaction, error)
	ListByProduct(productID int64) ([]*entity.InventoryTransaction, error)
	List() ([]*entity.InventoryTransaction, error)
}
