package dto

import (
	"time"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int64           `json:"stock_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
}

// UpdateProductRequest edición de los campos de catálogo de un producto.
// Las cantidades no se editan por aquí: stock y reserva solo se mueven
// mediante las operaciones del libro de inventario.
type UpdateProductRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
}

// RestockRequest entrada de stock para un producto existente.
type RestockRequest struct {
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes"`
}

// ProductResponse representación de un producto en la API.
type ProductResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int64           `json:"stock_quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse mapea la entidad a su representación de API.
func ToProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		StockQuantity:     p.StockQuantity,
		ReservedQuantity:  p.ReservedQuantity,
		AvailableQuantity: p.AvailableQuantity(),
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToProductResponses mapea una lista de productos.
func ToProductResponses(list []*entity.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProductResponse(p))
	}
	return out
}
