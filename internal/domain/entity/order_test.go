package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados del pedido
//
// placed -> paid -> delivered (terminal)
// placed -> cancelled (terminal)
//
// Cualquier otra arista está prohibida, incluidos los saltos (placed -> delivered)
// y los retrocesos (paid -> placed, cancelled -> cualquiera).
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_AristasLegales(t *testing.T) {
	legales := []struct{ from, to string }{
		{entity.OrderStatusPlaced, entity.OrderStatusPaid},
		{entity.OrderStatusPlaced, entity.OrderStatusCancelled},
		{entity.OrderStatusPaid, entity.OrderStatusDelivered},
	}
	for _, tc := range legales {
		assert.True(t, entity.CanTransition(tc.from, tc.to),
			"la transición %s -> %s debe ser legal", tc.from, tc.to)
	}
}

func TestCanTransition_AristasProhibidas(t *testing.T) {
	prohibidas := []struct{ from, to string }{
		// Saltos hacia adelante
		{entity.OrderStatusPlaced, entity.OrderStatusDelivered},
		// Retrocesos
		{entity.OrderStatusPaid, entity.OrderStatusPlaced},
		{entity.OrderStatusDelivered, entity.OrderStatusPaid},
		// Estados terminales: sin salida
		{entity.OrderStatusDelivered, entity.OrderStatusCancelled},
		{entity.OrderStatusCancelled, entity.OrderStatusPlaced},
		{entity.OrderStatusCancelled, entity.OrderStatusPaid},
		// Cancelar después de pagar no está permitido
		{entity.OrderStatusPaid, entity.OrderStatusCancelled},
		// Auto-transición
		{entity.OrderStatusPlaced, entity.OrderStatusPlaced},
	}
	for _, tc := range prohibidas {
		assert.False(t, entity.CanTransition(tc.from, tc.to),
			"la transición %s -> %s debe estar prohibida", tc.from, tc.to)
	}
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, entity.CanTransition("unknown", entity.OrderStatusPaid))
	assert.False(t, entity.CanTransition(entity.OrderStatusPlaced, "unknown"))
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{"placed", "paid", "delivered", "cancelled"} {
		assert.True(t, entity.IsValidOrderStatus(s), "%s debe ser un estado conocido", s)
	}
	assert.False(t, entity.IsValidOrderStatus("shipped"))
	assert.False(t, entity.IsValidOrderStatus(""))
	assert.False(t, entity.IsValidOrderStatus("PLACED"), "los estados son case-sensitive")
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales del pedido
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderItem_TotalPrice(t *testing.T) {
	item := entity.OrderItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("129.99"),
	}
	assert.True(t, item.TotalPrice().Equal(decimal.RequireFromString("389.97")),
		"3 x 129.99 debe ser 389.97, fue %s", item.TotalPrice())
}

func TestOrder_TotalAmount(t *testing.T) {
	order := entity.Order{
		Items: []entity.OrderItem{
			{Quantity: 2, UnitPrice: decimal.RequireFromString("29.99")},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("199.99")},
		},
	}
	assert.True(t, order.TotalAmount().Equal(decimal.RequireFromString("259.97")),
		"el total del pedido debe sumar las líneas, fue %s", order.TotalAmount())
}

func TestOrder_TotalAmount_SinItems(t *testing.T) {
	var order entity.Order
	assert.True(t, order.TotalAmount().IsZero())
}
