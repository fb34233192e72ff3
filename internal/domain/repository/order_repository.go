package repository

import (
	"time"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

// StatusUpdate campos a escribir en un cambio de estado de pedido.
// PaidAt/DeliveredAt nil significa no tocar la columna.
type StatusUpdate struct {
	Status      string
	PaidAt      *time.Time
	DeliveredAt *time.Time
}

// OrderRepository puerto de persistencia para pedidos y sus líneas.
// Las líneas son inmutables después de la creación; solo el estado y los
// timestamps del pedido se actualizan, siempre dentro de una transacción.
type OrderRepository interface {
	Create(customerID int64, status string) (*entity.Order, error)
	CreateItem(item *entity.OrderItem) (*entity.OrderItem, error)
	GetByID(id int64) (*entity.Order, error)
	GetForUpdate(id int64) (*entity.Order, error)
	ListItems(orderID int64) ([]entity.OrderItem, error)
	ListByCustomer(customerID int64) ([]*entity.Order, error)
	List() ([]*entity.Order, error)
	UpdateStatus(id int64, upd StatusUpdate) error
}
