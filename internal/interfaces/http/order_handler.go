package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/omnitrack-api/internal/application/dto"
	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/internal/application/query"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

// OrderHandler maneja la creación de pedidos y su ciclo de vida (protegido).
type OrderHandler struct {
	uc      *orders.OrderUseCase
	reports *query.ReportUseCase
	idem    orders.IdempotencyStore // opcional; nil desactiva la deduplicación
}

// NewOrderHandler construye el handler. idem puede ser nil.
func NewOrderHandler(uc *orders.OrderUseCase, reports *query.ReportUseCase, idem orders.IdempotencyStore) *OrderHandler {
	return &OrderHandler{uc: uc, reports: reports, idem: idem}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Reserva el stock de cada línea de forma atómica: si alguna línea
//
//	no tiene disponibilidad, no se crea nada.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de deduplicación de reintentos"
// @Param        body             body    dto.CreateOrderRequest  true   "customer_id (solo staff), items"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// Los clientes compran para sí mismos; el staff puede indicar el cliente
	customerID := GetUserID(c)
	if GetRole(c) != entity.RoleCustomer && in.CustomerID > 0 {
		customerID = in.CustomerID
	}

	// Reintentos con la misma Idempotency-Key devuelven el pedido ya creado.
	// El pedido cacheado pasa por el mismo control de pertenencia que GetByID:
	// una clave ajena (adivinada o colisionada) no expone pedidos de otro cliente.
	idemKey := c.Get("Idempotency-Key")
	if idemKey != "" && h.idem != nil {
		if orderID, found, err := h.idem.Get(c.Context(), idemKey); err == nil && found {
			order, err := h.reports.GetOrder(orderID)
			if err != nil {
				return errorResponse(c, err)
			}
			if GetRole(c) == entity.RoleCustomer && order.CustomerID != GetUserID(c) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
			}
			return c.Status(fiber.StatusOK).JSON(dto.ToOrderResponse(order))
		}
	}

	items := make([]orders.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, orders.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.uc.CreateOrder(c.Context(), customerID, items)
	if err != nil {
		return errorResponse(c, err)
	}

	if idemKey != "" && h.idem != nil {
		_ = h.idem.Set(c.Context(), idemKey, order.ID)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponse(order))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de pedido
// @Description  placed->paid finaliza la venta; placed->cancelled libera la
//
//	reserva; paid->delivered solo marca entrega.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	order, err := h.uc.UpdateStatus(c.Context(), int64(id), in.Status, &userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	order, err := h.reports.GetOrder(int64(id))
	if err != nil {
		return errorResponse(c, err)
	}
	// Un cliente solo puede ver sus propios pedidos
	if GetRole(c) == entity.RoleCustomer && order.CustomerID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.JSON(dto.ToOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos
// @Description  El staff ve todos los pedidos; un cliente solo los suyos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	if GetRole(c) == entity.RoleCustomer {
		list, err := h.reports.ListOrdersByCustomer(GetUserID(c))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(dto.ToOrderResponses(list))
	}
	list, err := h.reports.ListOrders()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToOrderResponses(list))
}
