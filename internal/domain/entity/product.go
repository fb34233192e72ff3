package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock y su reserva vigente.
// StockQuantity y ReservedQuantity solo se mutan dentro de transacciones del
// motor de inventario, con la fila bloqueada (SELECT FOR UPDATE).
// Invariante: 0 <= ReservedQuantity <= StockQuantity después de cada commit.
type Product struct {
	ID                int64
	Name              string
	Description       string
	Price             decimal.Decimal // precio de venta, nunca negativo
	StockQuantity     int64
	ReservedQuantity  int64
	LowStockThreshold int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AvailableQuantity devuelve la cantidad vendible ahora mismo (stock menos reservado).
func (p *Product) AvailableQuantity() int64 {
	return p.StockQuantity - p.ReservedQuantity
}

// IsLowStock indica si el stock está en o por debajo del umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
