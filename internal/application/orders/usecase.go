package orders

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/omnitrack-api/internal/domain"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// ItemInput línea solicitada al crear un pedido. El precio unitario no se recibe:
// se toma del producto con la fila ya bloqueada, como foto al momento de la creación.
type ItemInput struct {
	ProductID int64
	Quantity  int64
}

// OrderUseCase es el motor de pedidos: crea pedidos reservando stock y conduce
// la máquina de estados placed -> paid -> delivered / placed -> cancelled.
// Cada operación pública es una sola transacción contra el sustrato; los efectos
// sobre stock se delegan siempre al libro mayor (StockLedger), nunca se mutan
// productos directamente desde este paquete.
type OrderUseCase struct {
	txRunner OrderTxRunner
	ledger   StockLedger
	events   EventPublisher // opcional; nil desactiva la publicación
	producer string
}

// NewOrderUseCase construye el motor de pedidos. events puede ser nil.
func NewOrderUseCase(txRunner OrderTxRunner, ledger StockLedger, events EventPublisher, producer string) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, ledger: ledger, events: events, producer: producer}
}

// CreateOrder crea un pedido en estado placed y reserva el stock de cada línea,
// todo dentro de una sola transacción. Si cualquier línea falla (producto
// inexistente o stock insuficiente) se revierte todo: ni pedido, ni líneas,
// ni reservas, ni entradas de auditoría.
//
// Las filas de producto se bloquean en orden ascendente de ID para evitar
// deadlocks entre dos pedidos que reservan los mismos productos en orden opuesto.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, customerID int64, items []ItemInput) (*entity.Order, error) {
	if customerID <= 0 || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	groupID := uuid.New().String()
	now := time.Now()
	var order *entity.Order

	err := uc.txRunner.RunOrder(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		created, err := orderRepo.Create(customerID, entity.OrderStatusPlaced)
		if err != nil {
			return err
		}

		// Reservar con las filas bloqueadas en orden ascendente de producto
		sorted := make([]ItemInput, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

		prices := make(map[int64]entity.Product, len(sorted))
		for _, it := range sorted {
			product, err := uc.ledger.ReserveInTx(txnRepo, productRepo, it.ProductID, it.Quantity, created.ID, groupID, now)
			if err != nil {
				return err // rollback total: sin pedido parcial ni reserva parcial
			}
			prices[it.ProductID] = *product
		}

		// Las líneas se persisten en el orden de entrada del caller
		for _, it := range items {
			p := prices[it.ProductID]
			item, err := orderRepo.CreateItem(&entity.OrderItem{
				OrderID:   created.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
			})
			if err != nil {
				return err
			}
			created.Items = append(created.Items, *item)
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishOrderEvent(ctx, EventOrderPlaced, TopicOrderPlaced, order)
	return order, nil
}

// UpdateStatus avanza la máquina de estados de un pedido dentro de una transacción:
//
//	paid:      exige placed; finaliza la venta de cada línea y fija paid_at
//	delivered: exige paid; solo estado y delivered_at, sin efecto en inventario
//	cancelled: exige placed; libera la reserva de cada línea
//
// Cualquier otra transición retorna ErrInvalidTransition sin efectos.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, newStatus string, userID *int64) (*entity.Order, error) {
	if !entity.IsValidOrderStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}

	groupID := uuid.New().String()
	now := time.Now()
	var order *entity.Order
	var lowStock []*entity.Product

	err := uc.txRunner.RunOrder(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		current, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(current.Status, newStatus) {
			return domain.ErrInvalidTransition
		}

		upd := repository.StatusUpdate{Status: newStatus}
		switch newStatus {
		case entity.OrderStatusPaid:
			for i := range current.Items {
				it := &current.Items[i]
				product, err := uc.ledger.FinalizeSaleInTx(txnRepo, productRepo, it.ProductID, it.Quantity, current.ID, userID, groupID, now)
				if err != nil {
					return err
				}
				if product.IsLowStock() {
					lowStock = append(lowStock, product)
				}
			}
			upd.PaidAt = &now
		case entity.OrderStatusCancelled:
			for i := range current.Items {
				it := &current.Items[i]
				if _, err := uc.ledger.ReleaseInTx(txnRepo, productRepo, it.ProductID, it.Quantity, current.ID, userID, groupID, now); err != nil {
					return err
				}
			}
		case entity.OrderStatusDelivered:
			// Sin efecto en inventario: el stock ya se descontó al pagar
			upd.DeliveredAt = &now
		}

		if err := orderRepo.UpdateStatus(current.ID, upd); err != nil {
			return err
		}
		current.Status = newStatus
		current.UpdatedAt = now
		current.PaidAt = coalesceTime(current.PaidAt, upd.PaidAt)
		current.DeliveredAt = coalesceTime(current.DeliveredAt, upd.DeliveredAt)
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case entity.OrderStatusPaid:
		uc.publishOrderEvent(ctx, EventOrderPaid, TopicOrderPaid, order)
		uc.publishLowStock(ctx, lowStock)
	case entity.OrderStatusDelivered:
		uc.publishOrderEvent(ctx, EventOrderDelivered, TopicOrderDelivered, order)
	case entity.OrderStatusCancelled:
		uc.publishOrderEvent(ctx, EventOrderCancelled, TopicOrderCancelled, order)
	}
	return order, nil
}

func coalesceTime(current, incoming *time.Time) *time.Time {
	if incoming != nil {
		return incoming
	}
	return current
}

// publishOrderEvent arma el envelope y lo publica después del commit. nil-safe.
func (uc *OrderUseCase) publishOrderEvent(ctx context.Context, eventType, topic string, order *entity.Order) {
	if uc.events == nil || order == nil {
		return
	}
	items := make([]OrderEventItem, 0, len(order.Items))
	for i := range order.Items {
		it := &order.Items[i]
		items = append(items, OrderEventItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		})
	}
	payload, err := json.Marshal(OrderEventPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount().String(),
		Items:       items,
	})
	if err != nil {
		return
	}
	uc.events.Publish(ctx, topic, strconv.FormatInt(order.ID, 10), Event{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		Producer:   uc.producer,
		Payload:    payload,
	})
}

// publishLowStock emite una alerta por cada producto que quedó en o bajo su umbral.
func (uc *OrderUseCase) publishLowStock(ctx context.Context, products []*entity.Product) {
	if uc.events == nil {
		return
	}
	for _, p := range products {
		payload, err := json.Marshal(LowStockPayload{
			ProductID:     p.ID,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			Threshold:     p.LowStockThreshold,
		})
		if err != nil {
			continue
		}
		uc.events.Publish(ctx, TopicLowStock, strconv.FormatInt(p.ID, 10), Event{
			EventID:    uuid.New().String(),
			EventType:  EventLowStock,
			OccurredAt: time.Now(),
			Producer:   uc.producer,
			Payload:    payload,
		})
	}
}
