package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
)

func TestProduct_AvailableQuantity(t *testing.T) {
	p := entity.Product{StockQuantity: 10, ReservedQuantity: 7}
	assert.Equal(t, int64(3), p.AvailableQuantity(),
		"disponible = stock - reservado")

	p.ReservedQuantity = 10
	assert.Equal(t, int64(0), p.AvailableQuantity(),
		"todo reservado deja disponible en cero")
}

func TestProduct_IsLowStock_Umbral(t *testing.T) {
	// El umbral es inclusivo: stock == threshold ya es stock bajo
	casos := []struct {
		stock     int64
		threshold int64
		want      bool
	}{
		{stock: 6, threshold: 5, want: false},
		{stock: 5, threshold: 5, want: true},
		{stock: 4, threshold: 5, want: true},
		{stock: 0, threshold: 5, want: true},
		{stock: 0, threshold: 0, want: true},
	}
	for _, tc := range casos {
		p := entity.Product{StockQuantity: tc.stock, LowStockThreshold: tc.threshold}
		assert.Equal(t, tc.want, p.IsLowStock(),
			"stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestIsValidTransactionType(t *testing.T) {
	for _, tt := range []string{"reserve", "sale", "release", "restock"} {
		assert.True(t, entity.IsValidTransactionType(tt))
	}
	assert.False(t, entity.IsValidTransactionType("refund"))
	assert.False(t, entity.IsValidTransactionType(""))
}
