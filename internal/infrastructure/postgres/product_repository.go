package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, description, price, stock_quantity, reserved_quantity, low_stock_threshold, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price,
		&p.StockQuantity, &p.ReservedQuantity, &p.LowStockThreshold,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. ID y timestamps los asigna el servidor.
func (r *ProductRepo) Create(product *entity.Product) (*entity.Product, error) {
	query := `
		INSERT INTO products (name, description, price, stock_quantity, reserved_quantity, low_stock_threshold)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING ` + productColumns
	created, err := scanProduct(r.q.QueryRow(context.Background(), query,
		product.Name, product.Description, product.Price,
		product.StockQuantity, product.LowStockThreshold,
	))
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

// GetByID obtiene un producto por ID. Devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
// El lock se sostiene hasta el commit/rollback de la transacción en curso.
func (r *ProductRepo) GetForUpdate(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// List devuelve todos los productos ordenados por ID.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	return r.list(query)
}

// ListLowStock devuelve los productos con stock en o bajo su umbral, menor stock primero.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE stock_quantity <= low_stock_threshold ORDER BY stock_quantity`
	return r.list(query)
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateQuantities escribe stock y reserva del producto. Se usa solo con la fila
// ya bloqueada por GetForUpdate dentro de la misma transacción.
func (r *ProductRepo) UpdateQuantities(id int64, stockQuantity, reservedQuantity int64) error {
	query := `
		UPDATE products
		SET stock_quantity = $2, reserved_quantity = $3, updated_at = now()
		WHERE id = $1`
	ct, err := r.q.Exec(context.Background(), query, id, stockQuantity, reservedQuantity)
	if err != nil {
		return fmt.Errorf("update quantities: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update quantities: producto %d no existe", id)
	}
	return nil
}

// Update escribe los campos de catálogo del producto (no cantidades).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, low_stock_threshold = $5, updated_at = now()
		WHERE id = $1`
	ct, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Price, product.LowStockThreshold,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update product: producto %d no existe", product.ID)
	}
	return nil
}
