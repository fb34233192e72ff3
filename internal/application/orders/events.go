package orders

import (
	"encoding/json"
	"time"
)

// Tipos de evento publicados por el motor de pedidos.
const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderPaid      = "OrderPaid"
	EventOrderDelivered = "OrderDelivered"
	EventOrderCancelled = "OrderCancelled"
	EventLowStock       = "LowStock"
)

// Tópicos Kafka. La key de partición es el order_id (o product_id para alertas)
// para mantener el orden de los eventos de una misma entidad.
const (
	TopicOrderPlaced    = "order.placed"
	TopicOrderPaid      = "order.paid"
	TopicOrderDelivered = "order.delivered"
	TopicOrderCancelled = "order.cancelled"
	TopicLowStock       = "inventory.low_stock"
)

// Event envuelve un evento de dominio para publicación.
type Event struct {
	EventID    string          `json:"event_id"` // uuid
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"` // ej. "omnitrack-api"
	Payload    json.RawMessage `json:"payload"`
}

// OrderEventItem línea de pedido dentro de un payload de evento.
type OrderEventItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderEventPayload payload de los eventos de ciclo de vida de pedido.
type OrderEventPayload struct {
	OrderID     int64            `json:"order_id"`
	CustomerID  int64            `json:"customer_id"`
	Status      string           `json:"status"`
	TotalAmount string           `json:"total_amount"`
	Items       []OrderEventItem `json:"items,omitempty"`
}

// LowStockPayload payload de la alerta de stock bajo (emitida al finalizar ventas).
type LowStockPayload struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
	Threshold     int64  `json:"threshold"`
}
