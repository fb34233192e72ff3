package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/omnitrack-api/internal/application/dto"
	"github.com/jhoicas/omnitrack-api/internal/application/query"
)

// ReportHandler expone la superficie de consulta para reportería (protegido, solo lectura).
type ReportHandler struct {
	reports *query.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *query.ReportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.reports.ListLowStockProducts()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponses(list))
}

// Transactions godoc
// @Summary      Historial del libro de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int  false  "Filtrar por producto"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/reports/transactions [get]
func (h *ReportHandler) Transactions(c *fiber.Ctx) error {
	productID := c.QueryInt("product_id")
	if productID > 0 {
		list, err := h.reports.ListTransactionsByProduct(int64(productID))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(dto.ToTransactionResponses(list))
	}
	list, err := h.reports.ListTransactions()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToTransactionResponses(list))
}
