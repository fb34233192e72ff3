package query

import (
	"github.com/jhoicas/omnitrack-api/internal/domain"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

// ReportUseCase es la superficie de consulta: proyecciones de solo lectura sobre
// estado ya confirmado. Corre contra el pool (sin transacción ni locks); nunca
// observa reservas en vuelo porque el motor solo escribe bajo commit atómico.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	txnRepo     repository.TransactionRepository
}

// NewReportUseCase construye la superficie de consulta.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	txnRepo repository.TransactionRepository,
) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, orderRepo: orderRepo, txnRepo: txnRepo}
}

// GetProduct devuelve un producto por ID.
func (uc *ReportUseCase) GetProduct(id int64) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts devuelve todos los productos.
func (uc *ReportUseCase) ListProducts() ([]*entity.Product, error) {
	return uc.productRepo.List()
}

// ListLowStockProducts devuelve los productos con stock en o bajo su umbral,
// ordenados de menor a mayor stock.
func (uc *ReportUseCase) ListLowStockProducts() ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}

// GetOrder devuelve un pedido con sus líneas.
func (uc *ReportUseCase) GetOrder(id int64) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders devuelve todos los pedidos, más recientes primero.
func (uc *ReportUseCase) ListOrders() ([]*entity.Order, error) {
	return uc.orderRepo.List()
}

// ListOrdersByCustomer devuelve los pedidos de un cliente, más recientes primero.
func (uc *ReportUseCase) ListOrdersByCustomer(customerID int64) ([]*entity.Order, error) {
	return uc.orderRepo.ListByCustomer(customerID)
}

// GetTransaction devuelve una entrada del libro de inventario.
func (uc *ReportUseCase) GetTransaction(id int64) (*entity.InventoryTransaction, error) {
	txn, err := uc.txnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

// ListTransactions devuelve el historial completo del libro, más reciente primero.
func (uc *ReportUseCase) ListTransactions() ([]*entity.InventoryTransaction, error) {
	return uc.txnRepo.List()
}

// ListTransactionsByProduct devuelve el historial de un producto, más reciente primero.
func (uc *ReportUseCase) ListTransactionsByProduct(productID int64) ([]*entity.InventoryTransaction, error) {
	return uc.txnRepo.ListByProduct(productID)
}
