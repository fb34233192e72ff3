package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// validNext define la máquina de estados cerrada del pedido.
// placed -> paid -> delivered (terminal); placed -> cancelled (terminal).
var validNext = map[string]map[string]bool{
	OrderStatusPlaced:    {OrderStatusPaid: true, OrderStatusCancelled: true},
	OrderStatusPaid:      {OrderStatusDelivered: true},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition indica si el cambio de estado from -> to es legal.
func CanTransition(from, to string) bool {
	return validNext[from][to]
}

// IsValidOrderStatus indica si s es un estado de pedido conocido.
func IsValidOrderStatus(s string) bool {
	_, ok := validNext[s]
	return ok
}

// OrderItem es una línea de pedido. UnitPrice es una foto del precio del producto
// al momento de crear el pedido, independiente de cambios posteriores.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// TotalPrice devuelve cantidad por precio unitario.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order representa un pedido de un cliente. Los items son inmutables después de
// la creación; el estado y los timestamps avanzan solo hacia adelante.
type Order struct {
	ID          int64
	CustomerID  int64
	Items       []OrderItem
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	DeliveredAt *time.Time
}

// TotalAmount suma los totales de las líneas del pedido.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return total
}
