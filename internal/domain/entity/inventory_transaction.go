package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	TransactionTypeReserve = "reserve" // reserva provisional (no toca stock)
	TransactionTypeSale    = "sale"    // venta: descuenta stock y reserva
	TransactionTypeRelease = "release" // libera una reserva
	TransactionTypeRestock = "restock" // entrada de stock
)

// IsValidTransactionType indica si t es un tipo de movimiento conocido.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeReserve, TransactionTypeSale, TransactionTypeRelease, TransactionTypeRestock:
		return true
	}
	return false
}

// InventoryTransaction es una entrada del libro de inventario. Append-only:
// una vez escrita nunca se actualiza ni se borra. La suma de sus cantidades por
// producto debe reconciliar con StockQuantity y ReservedQuantity en todo momento:
//
//	stock    = sum(restock) - sum(sale)
//	reserva  = sum(reserve) - sum(release) - sum(sale)
//
// GroupID correlaciona todas las entradas escritas por una misma operación del motor.
type InventoryTransaction struct {
	ID        int64
	GroupID   string // uuid de la operación que escribió la entrada
	ProductID int64
	Type      string
	Quantity  int64 // siempre positivo; el signo lo da Type
	OrderID   *int64
	UserID    *int64
	Notes     string
	CreatedAt time.Time
}
