package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/omnitrack-api/internal/domain"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase es el libro mayor de productos: reserva, liberación, venta y
// reposición de stock. Cada operación pública abre exactamente una transacción,
// bloquea la fila del producto (SELECT FOR UPDATE) durante toda la secuencia
// verificar-y-mutar, y escribe exactamente una entrada en inventory_transactions
// dentro de esa misma transacción.
//
// Las variantes *InTx reciben repositorios ya atados a una transacción del caller
// (el motor de pedidos las compone dentro de su propia tx).
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// CreateProduct da de alta un producto en el catálogo. Si entra con stock inicial,
// la misma transacción escribe el movimiento restock "Stock inicial" para que el
// libro reconcilie desde el primer día.
func (uc *StockUseCase) CreateProduct(ctx context.Context, product *entity.Product, userID *int64) (*entity.Product, error) {
	if product.Name == "" || product.Price.IsNegative() ||
		product.StockQuantity < 0 || product.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	groupID := uuid.New().String()
	var created *entity.Product
	err := uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		created, err = productRepo.Create(product)
		if err != nil {
			return err
		}
		if created.StockQuantity == 0 {
			return nil
		}
		txn := &entity.InventoryTransaction{
			GroupID:   groupID,
			ProductID: created.ID,
			Type:      entity.TransactionTypeRestock,
			Quantity:  created.StockQuantity,
			UserID:    userID,
			Notes:     "Stock inicial",
			CreatedAt: created.CreatedAt,
		}
		_, err = txnRepo.Create(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CatalogUpdate campos editables del catálogo. Las cantidades quedan fuera:
// stock y reserva solo se mueven por las operaciones del libro.
type CatalogUpdate struct {
	Name              string
	Description       string
	Price             decimal.Decimal
	LowStockThreshold int64
}

// UpdateProduct edita los campos de catálogo de un producto existente
// (nombre, descripción, precio, umbral). Devuelve el producto actualizado.
func (uc *StockUseCase) UpdateProduct(ctx context.Context, productID int64, in CatalogUpdate) (*entity.Product, error) {
	if in.Name == "" || in.Price.IsNegative() || in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		product.Name = in.Name
		product.Description = in.Description
		product.Price = in.Price
		product.LowStockThreshold = in.LowStockThreshold
		product.UpdatedAt = time.Now()
		if err := productRepo.Update(product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Restock suma quantity al stock del producto y registra un movimiento restock.
// Siempre tiene éxito si el producto existe y quantity > 0.
func (uc *StockUseCase) Restock(ctx context.Context, productID, quantity int64, userID *int64, notes string) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	groupID := uuid.New().String()
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		_, err := uc.RestockInTx(txnRepo, productRepo, productID, quantity, userID, notes, groupID, now)
		return err
	})
}

// Reserve aparta quantity unidades para un pedido si hay disponibilidad
// (stock - reservado >= quantity). No toca el stock físico.
func (uc *StockUseCase) Reserve(ctx context.Context, productID, quantity, orderID int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	groupID := uuid.New().String()
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		_, err := uc.ReserveInTx(txnRepo, productRepo, productID, quantity, orderID, groupID, now)
		return err
	})
}

// Release devuelve quantity unidades reservadas a disponibilidad.
// Exige reservado >= quantity: liberar más de lo reservado es ErrInconsistentStock.
func (uc *StockUseCase) Release(ctx context.Context, productID, quantity, orderID int64, userID *int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	groupID := uuid.New().String()
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		_, err := uc.ReleaseInTx(txnRepo, productRepo, productID, quantity, orderID, userID, groupID, now)
		return err
	})
}

// FinalizeSale convierte una reserva en descuento permanente de stock:
// resta quantity de stock y de reservado, y registra un movimiento sale.
func (uc *StockUseCase) FinalizeSale(ctx context.Context, productID, quantity, orderID int64, userID *int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	groupID := uuid.New().String()
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		txnRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		_, err := uc.FinalizeSaleInTx(txnRepo, productRepo, productID, quantity, orderID, userID, groupID, now)
		return err
	})
}

// RestockInTx ejecuta la reposición usando los repositorios del caller (misma transacción).
// Devuelve el producto ya actualizado.
func (uc *StockUseCase) RestockInTx(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	productID, quantity int64,
	userID *int64,
	notes string,
	groupID string,
	now time.Time,
) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	// Bloquea la fila del producto hasta el commit/rollback
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.StockQuantity += quantity
	product.UpdatedAt = now
	if err := productRepo.UpdateQuantities(productID, product.StockQuantity, product.ReservedQuantity); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		GroupID:   groupID,
		ProductID: productID,
		Type:      entity.TransactionTypeRestock,
		Quantity:  quantity,
		UserID:    userID,
		Notes:     notes,
		CreatedAt: now,
	}
	if _, err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return product, nil
}

// ReserveInTx ejecuta la reserva usando los repositorios del caller (misma transacción).
// Con la fila bloqueada verifica disponible >= quantity; si no alcanza retorna
// ErrInsufficientStock sin mutar nada. Devuelve el producto ya actualizado
// (el motor de pedidos toma de ahí el precio para la foto de la línea).
func (uc *StockUseCase) ReserveInTx(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	productID, quantity, orderID int64,
	groupID string,
	now time.Time,
) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.AvailableQuantity() < quantity {
		return nil, domain.ErrInsufficientStock
	}
	product.ReservedQuantity += quantity
	product.UpdatedAt = now
	if err := productRepo.UpdateQuantities(productID, product.StockQuantity, product.ReservedQuantity); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		GroupID:   groupID,
		ProductID: productID,
		Type:      entity.TransactionTypeReserve,
		Quantity:  quantity,
		OrderID:   &orderID,
		CreatedAt: now,
	}
	if _, err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return product, nil
}

// ReleaseInTx ejecuta la liberación usando los repositorios del caller (misma transacción).
func (uc *StockUseCase) ReleaseInTx(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	productID, quantity, orderID int64,
	userID *int64,
	groupID string,
	now time.Time,
) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ReservedQuantity < quantity {
		return nil, domain.ErrInconsistentStock
	}
	product.ReservedQuantity -= quantity
	product.UpdatedAt = now
	if err := productRepo.UpdateQuantities(productID, product.StockQuantity, product.ReservedQuantity); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		GroupID:   groupID,
		ProductID: productID,
		Type:      entity.TransactionTypeRelease,
		Quantity:  quantity,
		OrderID:   &orderID,
		UserID:    userID,
		CreatedAt: now,
	}
	if _, err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return product, nil
}

// FinalizeSaleInTx ejecuta la venta usando los repositorios del caller (misma transacción).
// Exige reservado >= quantity; descuenta stock y reservado a la vez.
func (uc *StockUseCase) FinalizeSaleInTx(
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	productID, quantity, orderID int64,
	userID *int64,
	groupID string,
	now time.Time,
) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ReservedQuantity < quantity {
		return nil, domain.ErrInconsistentStock
	}
	product.StockQuantity -= quantity
	product.ReservedQuantity -= quantity
	product.UpdatedAt = now
	if err := productRepo.UpdateQuantities(productID, product.StockQuantity, product.ReservedQuantity); err != nil {
		return nil, err
	}
	txn := &entity.InventoryTransaction{
		GroupID:   groupID,
		ProductID: productID,
		Type:      entity.TransactionTypeSale,
		Quantity:  quantity,
		OrderID:   &orderID,
		UserID:    userID,
		CreatedAt: now,
	}
	if _, err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return product, nil
}
