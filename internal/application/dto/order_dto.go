package dto

import (
	"time"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada al crear un pedido.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreateOrderRequest creación de pedido. CustomerID se ignora para clientes
// autenticados (se usa el principal del token); el staff puede indicarlo.
type CreateOrderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest cambio de estado de un pedido.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse línea de pedido en la API.
type OrderItemResponse struct {
	ProductID  int64           `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse representación de un pedido en la API.
type OrderResponse struct {
	ID          int64               `json:"id"`
	CustomerID  int64               `json:"customer_id"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
}

// ToOrderResponse mapea la entidad a su representación de API.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemResponse{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice(),
		})
	}
	return &OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		Items:       items,
		TotalAmount: o.TotalAmount(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		PaidAt:      o.PaidAt,
		DeliveredAt: o.DeliveredAt,
	}
}

// ToOrderResponses mapea una lista de pedidos.
func ToOrderResponses(list []*entity.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

// TransactionResponse entrada del libro de inventario en la API.
type TransactionResponse struct {
	ID        int64     `json:"id"`
	GroupID   string    `json:"group_id"`
	ProductID int64     `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	OrderID   *int64    `json:"order_id,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTransactionResponses mapea una lista de entradas del libro.
func ToTransactionResponses(list []*entity.InventoryTransaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, &TransactionResponse{
			ID:        t.ID,
			GroupID:   t.GroupID,
			ProductID: t.ProductID,
			Type:      t.Type,
			Quantity:  t.Quantity,
			OrderID:   t.OrderID,
			UserID:    t.UserID,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}
