package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/omnitrack-api/internal/application/dto"
	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/application/query"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

// ProductHandler maneja catálogo y reposición de stock (protegido).
type ProductHandler struct {
	stock   *inventory.StockUseCase
	reports *query.ReportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(stock *inventory.StockUseCase, reports *query.ReportUseCase) *ProductHandler {
	return &ProductHandler{stock: stock, reports: reports}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, description, price, stock_quantity, low_stock_threshold"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	product, err := h.stock.CreateProduct(c.Context(), &entity.Product{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: in.LowStockThreshold,
	}, &userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(product))
}

// Update godoc
// @Summary      Editar producto
// @Description  Edita los campos de catálogo (nombre, descripción, precio,
//
//	umbral). El stock no se toca: usar /restock y los pedidos.
//
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "name, description, price, low_stock_threshold"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.stock.UpdateProduct(c.Context(), int64(id), inventory.CatalogUpdate{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		LowStockThreshold: in.LowStockThreshold,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.reports.ListProducts()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponses(list))
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	product, err := h.reports.GetProduct(int64(id))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "quantity, notes"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	if err := h.stock.Restock(c.Context(), int64(id), in.Quantity, &userID, in.Notes); err != nil {
		return errorResponse(c, err)
	}
	product, err := h.reports.GetProduct(int64(id))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}
