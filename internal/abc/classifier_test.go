package abc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmpty(t *testing.T) {
	items, totals := Classify(nil)
	assert.Empty(t, items)
	assert.Equal(t, CurveTotals{}, totals)
}

func TestClassifyPartitionsByCumulativeShare(t *testing.T) {
	// 1000 no total: 700 (70%), 150 (85%), 100 (95%), 50 (100%)
	products := []ProductValue{
		{Sku: "D", Value: 50},
		{Sku: "A", Value: 700},
		{Sku: "C", Value: 100},
		{Sku: "B", Value: 150},
	}

	items, totals := Classify(products)
	require.Len(t, items, 4)

	// ordenado por valor decrescente
	assert.Equal(t, "A", items[0].Sku)
	assert.Equal(t, "B", items[1].Sku)
	assert.Equal(t, "C", items[2].Sku)
	assert.Equal(t, "D", items[3].Sku)

	assert.Equal(t, "A", items[0].Class) // 70% <= 80
	assert.Equal(t, "B", items[1].Class) // 85% <= 95
	assert.Equal(t, "B", items[2].Class) // 95% <= 95 (limite exato)
	assert.Equal(t, "C", items[3].Class) // 100%

	assert.InDelta(t, 1000, totals.TotalValue, 1e-9)
	assert.Equal(t, 1, totals.CountA)
	assert.Equal(t, 2, totals.CountB)
	assert.Equal(t, 1, totals.CountC)
	assert.InDelta(t, 700, totals.ValueA, 1e-9)
	assert.InDelta(t, 250, totals.ValueB, 1e-9)
	assert.InDelta(t, 50, totals.ValueC, 1e-9)

	// percentual acumulado nunca decresce e fecha em 100%
	prev := 0.0
	for _, it := range items {
		assert.GreaterOrEqual(t, it.CumulativeShare, prev)
		prev = it.CumulativeShare
	}
	assert.InDelta(t, 100, items[len(items)-1].CumulativeShare, 1e-9)
}

func TestClassifySingleProductIsClassC(t *testing.T) {
	// um único produto concentra 100% do valor: cruza os dois limites
	items, totals := Classify([]ProductValue{{Sku: "X", Value: 42}})
	require.Len(t, items, 1)
	assert.Equal(t, "C", items[0].Class)
	assert.Equal(t, 1, totals.CountC)
}

func TestClassifyZeroValueProducts(t *testing.T) {
	items, totals := Classify([]ProductValue{
		{Sku: "A", Value: 0},
		{Sku: "B", Value: 0},
	})
	require.Len(t, items, 2)
	assert.InDelta(t, 0, totals.TotalValue, 1e-9)
	for _, it := range items {
		assert.InDelta(t, 0, it.Share, 1e-9)
		assert.Equal(t, "A", it.Class) // acumulado 0% fica dentro do limite A
	}
}

func TestClassifyStableTieBreakBySku(t *testing.T) {
	items, _ := Classify([]ProductValue{
		{Sku: "Z", Value: 10},
		{Sku: "A", Value: 10},
	})
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Sku)
	assert.Equal(t, "Z", items[1].Sku)
}
