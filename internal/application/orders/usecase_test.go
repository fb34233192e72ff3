package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/internal/domain"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula el sustrato completo del motor de pedidos: productos, pedidos,
// líneas y libro de inventario. El fakeTxRunner copia el estado antes de ejecutar
// fn y lo restaura entero si fn falla, que es exactamente la garantía de rollback
// que da la transacción real: o todo o nada.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products map[int64]entity.Product
	orders   map[int64]entity.Order
	items    []entity.OrderItem
	txns     []entity.InventoryTransaction

	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
	nextTxnID     int64
}

func newMemStore() *memStore {
	return &memStore{
		products:      make(map[int64]entity.Product),
		orders:        make(map[int64]entity.Order),
		nextProductID: 1,
		nextOrderID:   1,
		nextItemID:    1,
		nextTxnID:     1,
	}
}

func (s *memStore) snapshot() *memStore {
	cp := &memStore{
		products:      make(map[int64]entity.Product, len(s.products)),
		orders:        make(map[int64]entity.Order, len(s.orders)),
		items:         append([]entity.OrderItem(nil), s.items...),
		txns:          append([]entity.InventoryTransaction(nil), s.txns...),
		nextProductID: s.nextProductID,
		nextOrderID:   s.nextOrderID,
		nextItemID:    s.nextItemID,
		nextTxnID:     s.nextTxnID,
	}
	for id, p := range s.products {
		cp.products[id] = p
	}
	for id, o := range s.orders {
		cp.orders[id] = o
	}
	return cp
}

func (s *memStore) restore(snap *memStore) { *s = *snap }

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) (*entity.Product, error) {
	cp := *p
	cp.ID = r.s.nextProductID
	r.s.nextProductID++
	r.s.products[cp.ID] = cp
	out := cp
	return &out, nil
}

func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (r *fakeProductRepo) GetForUpdate(id int64) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) List() ([]*entity.Product, error)         { return nil, nil }
func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) UpdateQuantities(id int64, stockQuantity, reservedQuantity int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = stockQuantity
	p.ReservedQuantity = reservedQuantity
	r.s.products[id] = p
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

type fakeTxnRepo struct{ s *memStore }

func (r *fakeTxnRepo) Create(txn *entity.InventoryTransaction) (*entity.InventoryTransaction, error) {
	cp := *txn
	cp.ID = r.s.nextTxnID
	r.s.nextTxnID++
	r.s.txns = append(r.s.txns, cp)
	out := cp
	return &out, nil
}

func (r *fakeTxnRepo) GetByID(id int64) (*entity.InventoryTransaction, error) { return nil, nil }

func (r *fakeTxnRepo) ListByProduct(productID int64) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, txn := range r.s.txns {
		if txn.ProductID == productID {
			cp := txn
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) List() ([]*entity.InventoryTransaction, error) { return nil, nil }

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(customerID int64, status string) (*entity.Order, error) {
	now := time.Now()
	o := entity.Order{
		ID:         r.s.nextOrderID,
		CustomerID: customerID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.nextOrderID++
	r.s.orders[o.ID] = o
	out := o
	return &out, nil
}

func (r *fakeOrderRepo) CreateItem(item *entity.OrderItem) (*entity.OrderItem, error) {
	cp := *item
	cp.ID = r.s.nextItemID
	r.s.nextItemID++
	r.s.items = append(r.s.items, cp)
	out := cp
	return &out, nil
}

func (r *fakeOrderRepo) GetByID(id int64) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	out := o
	out.Items, _ = r.ListItems(id)
	return &out, nil
}

func (r *fakeOrderRepo) GetForUpdate(id int64) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) ListItems(orderID int64) ([]entity.OrderItem, error) {
	var out []entity.OrderItem
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByCustomer(customerID int64) ([]*entity.Order, error) { return nil, nil }
func (r *fakeOrderRepo) List() ([]*entity.Order, error)                           { return nil, nil }

func (r *fakeOrderRepo) UpdateStatus(id int64, upd repository.StatusUpdate) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = upd.Status
	if upd.PaidAt != nil {
		o.PaidAt = upd.PaidAt
	}
	if upd.DeliveredAt != nil {
		o.DeliveredAt = upd.DeliveredAt
	}
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

type fakeTxRunner struct{ s *memStore }

func (f *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	snap := f.s.snapshot()
	if err := fn(&fakeTxnRepo{s: f.s}, &fakeProductRepo{s: f.s}, &fakeOrderRepo{s: f.s}); err != nil {
		f.s.restore(snap)
		return err
	}
	return nil
}

// fakePublisher captura los eventos publicados para inspección.
type fakePublisher struct {
	published []publishedEvent
}

type publishedEvent struct {
	topic string
	key   string
	event orders.Event
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key string, event orders.Event) {
	f.published = append(f.published, publishedEvent{topic: topic, key: key, event: event})
}

func seedProduct(s *memStore, price string, stock, reserved, threshold int64) int64 {
	id := s.nextProductID
	s.nextProductID++
	s.products[id] = entity.Product{
		ID:                id,
		Name:              "Producto",
		Price:             decimal.RequireFromString(price),
		StockQuantity:     stock,
		ReservedQuantity:  reserved,
		LowStockThreshold: threshold,
	}
	return id
}

// newOrderUC arma el motor con el libro mayor real sobre los fakes de sustrato.
func newOrderUC(s *memStore, events orders.EventPublisher) *orders.OrderUseCase {
	ledger := inventory.NewStockUseCase(nil) // solo se usan las variantes InTx
	return orders.NewOrderUseCase(&fakeTxRunner{s: s}, ledger, events, "omnitrack-test")
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_ReservaYCreaLineas(t *testing.T) {
	s := newMemStore()
	shoes := seedProduct(s, "129.99", 25, 0, 5)
	ball := seedProduct(s, "29.99", 15, 0, 3)
	pub := &fakePublisher{}
	uc := newOrderUC(s, pub)

	order, err := uc.CreateOrder(context.Background(), 7, []orders.ItemInput{
		{ProductID: shoes, Quantity: 2},
		{ProductID: ball, Quantity: 3},
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, entity.OrderStatusPlaced, order.Status)
	assert.Equal(t, int64(7), order.CustomerID)
	require.Len(t, order.Items, 2)

	// El precio unitario es una foto del producto al momento de crear
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("129.99")))
	assert.True(t, order.Items[1].UnitPrice.Equal(decimal.RequireFromString("29.99")))
	assert.True(t, order.TotalAmount().Equal(decimal.RequireFromString("349.95")),
		"2x129.99 + 3x29.99 = 349.95, fue %s", order.TotalAmount())

	// Solo se reserva: el stock físico no cambia
	assert.Equal(t, int64(25), s.products[shoes].StockQuantity)
	assert.Equal(t, int64(2), s.products[shoes].ReservedQuantity)
	assert.Equal(t, int64(3), s.products[ball].ReservedQuantity)

	// Una entrada reserve por línea, todas con el mismo group_id
	require.Len(t, s.txns, 2)
	assert.Equal(t, s.txns[0].GroupID, s.txns[1].GroupID,
		"las entradas de una misma operación comparten group_id")
	for _, txn := range s.txns {
		assert.Equal(t, entity.TransactionTypeReserve, txn.Type)
		require.NotNil(t, txn.OrderID)
		assert.Equal(t, order.ID, *txn.OrderID)
	}

	// Evento order.placed después del commit
	require.Len(t, pub.published, 1)
	assert.Equal(t, orders.TopicOrderPlaced, pub.published[0].topic)
	assert.Equal(t, orders.EventOrderPlaced, pub.published[0].event.EventType)
}

func TestCreateOrder_LineaSinStock_RevierteTodo(t *testing.T) {
	s := newMemStore()
	shoes := seedProduct(s, "129.99", 25, 0, 5)
	racket := seedProduct(s, "199.99", 2, 0, 2)
	pub := &fakePublisher{}
	uc := newOrderUC(s, pub)

	_, err := uc.CreateOrder(context.Background(), 7, []orders.ItemInput{
		{ProductID: shoes, Quantity: 2},
		{ProductID: racket, Quantity: 5}, // solo hay 2
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback total: ni pedido, ni líneas, ni reservas, ni libro
	assert.Empty(t, s.orders, "no debe quedar pedido parcial")
	assert.Empty(t, s.items)
	assert.Empty(t, s.txns)
	assert.Equal(t, int64(0), s.products[shoes].ReservedQuantity,
		"la reserva de la primera línea debe revertirse")
	assert.Empty(t, pub.published, "una creación fallida no publica eventos")
}

func TestCreateOrder_ProductoInexistente_RevierteTodo(t *testing.T) {
	s := newMemStore()
	shoes := seedProduct(s, "129.99", 25, 0, 5)
	uc := newOrderUC(s, nil)

	_, err := uc.CreateOrder(context.Background(), 7, []orders.ItemInput{
		{ProductID: shoes, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.orders)
	assert.Equal(t, int64(0), s.products[shoes].ReservedQuantity)
}

func TestCreateOrder_InputInvalido(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "10.00", 5, 0, 2)
	uc := newOrderUC(s, nil)
	ctx := context.Background()

	_, err := uc.CreateOrder(ctx, 0, []orders.ItemInput{{ProductID: id, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "customer inválido")

	_, err = uc.CreateOrder(ctx, 7, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateOrder(ctx, 7, []orders.ItemInput{{ProductID: id, Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// Dos pedidos compitiendo por la última unidad: el primero la reserva, el
// segundo debe recibir ErrInsufficientStock. Nunca se vende de más.
func TestCreateOrder_UltimaUnidad_SoloUnPedidoGana(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "299.99", 1, 0, 2)
	uc := newOrderUC(s, nil)
	ctx := context.Background()

	first, err := uc.CreateOrder(ctx, 7, []orders.ItemInput{{ProductID: id, Quantity: 1}})
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = uc.CreateOrder(ctx, 8, []orders.ItemInput{{ProductID: id, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, s.orders, 1, "solo el primer pedido debe existir")
	assert.Equal(t, int64(1), s.products[id].ReservedQuantity)
}

// serialTxRunner serializa las transacciones con un mutex, igual que el lock de
// fila serializa dos transacciones reales que compiten por el mismo producto.
type serialTxRunner struct {
	mu    sync.Mutex
	inner fakeTxRunner
}

func (f *serialTxRunner) RunOrder(ctx context.Context, fn func(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inner.RunOrder(ctx, fn)
}

// Dos pedidos concurrentes por la última unidad: las transacciones se
// linealizan y exactamente uno gana; el otro recibe ErrInsufficientStock.
func TestCreateOrder_Concurrente_UltimaUnidad_ExactamenteUnoGana(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "299.99", 1, 0, 2)
	ledger := inventory.NewStockUseCase(nil)
	uc := orders.NewOrderUseCase(&serialTxRunner{inner: fakeTxRunner{s: s}}, ledger, nil, "omnitrack-test")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for customer := int64(7); customer <= 8; customer++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			_, err := uc.CreateOrder(context.Background(), customerID, []orders.ItemInput{
				{ProductID: id, Quantity: 1},
			})
			errs <- err
		}(customer)
	}
	wg.Wait()
	close(errs)

	var oks, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks, "exactamente un pedido debe ganar la última unidad")
	assert.Equal(t, 1, insufficient, "el otro debe recibir stock insuficiente")

	assert.Len(t, s.orders, 1, "el pedido perdedor no deja rastro")
	assert.Equal(t, int64(1), s.products[id].ReservedQuantity)
	assert.Len(t, s.txns, 1, "una sola entrada reserve en el libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func placeOrder(t *testing.T, uc *orders.OrderUseCase, customerID int64, items []orders.ItemInput) *entity.Order {
	t.Helper()
	order, err := uc.CreateOrder(context.Background(), customerID, items)
	require.NoError(t, err)
	return order
}

func TestUpdateStatus_Paid_DescuentaStockYFijaPaidAt(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "129.99", 25, 0, 5)
	pub := &fakePublisher{}
	uc := newOrderUC(s, pub)

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 3}})

	staffID := int64(2)
	updated, err := uc.UpdateStatus(context.Background(), order.ID, entity.OrderStatusPaid, &staffID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt, "pagar debe fijar paid_at")
	assert.Nil(t, updated.DeliveredAt)

	p := s.products[id]
	assert.Equal(t, int64(22), p.StockQuantity, "la venta descuenta el stock físico")
	assert.Equal(t, int64(0), p.ReservedQuantity, "y consume la reserva")

	// reserve (de la creación) + sale (del pago)
	require.Len(t, s.txns, 2)
	assert.Equal(t, entity.TransactionTypeSale, s.txns[1].Type)
	require.NotNil(t, s.txns[1].UserID)
	assert.Equal(t, staffID, *s.txns[1].UserID)

	// order.placed + order.paid
	require.Len(t, pub.published, 2)
	assert.Equal(t, orders.TopicOrderPaid, pub.published[1].topic)
}

func TestUpdateStatus_Paid_EmiteAlertaDeStockBajo(t *testing.T) {
	s := newMemStore()
	// stock 6, umbral 5: vender 3 deja 3 <= 5
	id := seedProduct(s, "299.99", 6, 0, 5)
	pub := &fakePublisher{}
	uc := newOrderUC(s, pub)

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 3}})
	_, err := uc.UpdateStatus(context.Background(), order.ID, entity.OrderStatusPaid, nil)
	require.NoError(t, err)

	// order.placed + order.paid + inventory.low_stock
	require.Len(t, pub.published, 3)
	assert.Equal(t, orders.TopicLowStock, pub.published[2].topic)
	assert.Equal(t, orders.EventLowStock, pub.published[2].event.EventType)
}

func TestUpdateStatus_Cancelled_LiberaLasReservas(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "129.99", 25, 0, 5)
	uc := newOrderUC(s, nil)

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 4}})
	require.Equal(t, int64(4), s.products[id].ReservedQuantity)

	updated, err := uc.UpdateStatus(context.Background(), order.ID, entity.OrderStatusCancelled, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
	p := s.products[id]
	assert.Equal(t, int64(25), p.StockQuantity, "cancelar no toca el stock físico")
	assert.Equal(t, int64(0), p.ReservedQuantity, "y devuelve toda la reserva")

	// reserve + release
	require.Len(t, s.txns, 2)
	assert.Equal(t, entity.TransactionTypeRelease, s.txns[1].Type)
}

func TestUpdateStatus_Delivered_SinEfectoEnInventario(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "129.99", 25, 0, 5)
	uc := newOrderUC(s, nil)
	ctx := context.Background()

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 3}})
	_, err := uc.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid, nil)
	require.NoError(t, err)
	txnsAfterPaid := len(s.txns)
	stockAfterPaid := s.products[id].StockQuantity

	updated, err := uc.UpdateStatus(ctx, order.ID, entity.OrderStatusDelivered, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	assert.Equal(t, stockAfterPaid, s.products[id].StockQuantity,
		"entregar no mueve inventario")
	assert.Len(t, s.txns, txnsAfterPaid, "entregar no escribe en el libro")
}

func TestUpdateStatus_TransicionIlegal(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "129.99", 25, 0, 5)
	uc := newOrderUC(s, nil)
	ctx := context.Background()

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 2}})

	// placed -> delivered se salta el pago
	_, err := uc.UpdateStatus(ctx, order.ID, entity.OrderStatusDelivered, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderStatusPlaced, s.orders[order.ID].Status,
		"el estado no debe cambiar tras una transición ilegal")

	// cancelar después de pagar tampoco es legal
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid, nil)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// delivered es terminal
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusDelivered, nil)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_PedidoInexistente(t *testing.T) {
	s := newMemStore()
	uc := newOrderUC(s, nil)

	_, err := uc.UpdateStatus(context.Background(), 999, entity.OrderStatusPaid, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	s := newMemStore()
	uc := newOrderUC(s, nil)

	_, err := uc.UpdateStatus(context.Background(), 1, "shipped", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ciclo completo contra el libro: crear, pagar y entregar un pedido deja el
// inventario reconciliado con las entradas de auditoría.
func TestCicloCompleto_LibroReconciliado(t *testing.T) {
	s := newMemStore()
	id := seedProduct(s, "39.99", 12, 0, 3)
	uc := newOrderUC(s, nil)
	ctx := context.Background()

	order := placeOrder(t, uc, 7, []orders.ItemInput{{ProductID: id, Quantity: 5}})
	_, err := uc.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid, nil)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusDelivered, nil)
	require.NoError(t, err)

	var reserve, release, sale int64
	for _, txn := range s.txns {
		switch txn.Type {
		case entity.TransactionTypeReserve:
			reserve += txn.Quantity
		case entity.TransactionTypeRelease:
			release += txn.Quantity
		case entity.TransactionTypeSale:
			sale += txn.Quantity
		}
	}

	p := s.products[id]
	assert.Equal(t, int64(7), p.StockQuantity)
	assert.Equal(t, reserve-release-sale, p.ReservedQuantity)
	assert.Equal(t, int64(12)-sale, p.StockQuantity,
		"stock inicial menos ventas debe dar el stock final")
}
