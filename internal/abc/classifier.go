package abc

import "sort"

// Limites da curva ABC sobre o percentual acumulado de valor de consumo
const (
	ClassAThreshold = 80.0
	ClassBThreshold = 95.0
)

type ProductValue struct {
	Sku         string
	ProductName string
	Value       float64
}

type CurveItem struct {
	Sku             string  `json:"sku"`
	ProductName     string  `json:"product_name"`
	Value           float64 `json:"value"`
	Share           float64 `json:"share"`            // % do valor total
	CumulativeShare float64 `json:"cumulative_share"` // % acumulado após incluir este item
	Class           string  `json:"class"`            // A / B / C
}

type CurveTotals struct {
	TotalValue float64 `json:"total_value"`
	CountA     int     `json:"count_a"`
	CountB     int     `json:"count_b"`
	CountC     int     `json:"count_c"`
	ValueA     float64 `json:"value_a"`
	ValueB     float64 `json:"value_b"`
	ValueC     float64 `json:"value_c"`
}

// Classify ordena os produtos por valor decrescente e atribui a classe pelo
// percentual acumulado: A até 80%, B até 95%, C o restante. O corte é
// avaliado após incluir o item, então o item que cruza um limite já cai na
// classe seguinte.
func Classify(products []ProductValue) ([]CurveItem, CurveTotals) {
	items := make([]CurveItem, 0, len(products))
	var totals CurveTotals

	if len(products) == 0 {
		return items, totals
	}

	sorted := make([]ProductValue, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Sku < sorted[j].Sku
	})

	for _, p := range sorted {
		totals.TotalValue += p.Value
	}

	cumulative := 0.0
	for _, p := range sorted {
		cumulative += p.Value

		share := 0.0
		cumShare := 0.0
		if totals.TotalValue > 0 {
			share = p.Value / totals.TotalValue * 100
			cumShare = cumulative / totals.TotalValue * 100
		}

		var class string
		switch {
		case cumShare <= ClassAThreshold:
			class = "A"
		case cumShare <= ClassBThreshold:
			class = "B"
		default:
			class = "C"
		}

		switch class {
		case "A":
			totals.CountA++
			totals.ValueA += p.Value
		case "B":
			totals.CountB++
			totals.ValueB += p.Value
		case "C":
			totals.CountC++
			totals.ValueC += p.Value
		}

		items = append(items, CurveItem{
			Sku:             p.Sku,
			ProductName:     p.ProductName,
			Value:           p.Value,
			Share:           share,
			CumulativeShare: cumShare,
			Class:           class,
		})
	}

	return items, totals
}
