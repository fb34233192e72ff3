package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/omnitrack-api/internal/application/auth"
	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/internal/application/query"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *inventory.StockUseCase
	OrderUC     *orders.OrderUseCase
	ReportUC    *query.ReportUseCase
	AuthUC      *auth.AuthUseCase
	Idempotency orders.IdempotencyStore // opcional
	JWTSecret   string
}

// Router registra las rutas de la API. La autorización por rol es la pre-condición
// explícita del borde; el core solo recibe el principal ya autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	staffOnly := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	// Products (protegido; mutaciones solo staff)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.StockUC, deps.ReportUC)
	products.Post("/", staffOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staffOnly, productHandler.Update)
	products.Post("/:id/restock", staffOnly, productHandler.Restock)

	// Orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.ReportUC, deps.Idempotency)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/status", staffOnly, orderHandler.UpdateStatus)

	// Reports (protegido, solo staff)
	reports := protected.Group("/reports", staffOnly)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/transactions", reportHandler.Transactions)
}
