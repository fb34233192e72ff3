package repository

import "github.com/jhoicas/omnitrack-api/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// GetForUpdate debe bloquear la fila (SELECT FOR UPDATE) hasta el commit/rollback
// de la transacción en curso; es la única primitiva de sincronización del motor.
type ProductRepository interface {
	Create(product *entity.Product) (*entity.Product, error)
	GetByID(id int64) (*entity.Product, error)
	GetForUpdate(id int64) (*entity.Product, error)
	List() ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	UpdateQuantities(id int64, stockQuantity, reservedQuantity int64) error
	Update(product *entity.Product) error
}
