package abc

import (
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CurveResponse struct {
	From   string      `json:"from,omitempty"`
	To     string      `json:"to,omitempty"`
	Items  []CurveItem `json:"items"`
	Totals CurveTotals `json:"totals"`
}

// -------------------------------------------------
// GET /api/reports/abc-curve?from=2026-01-01&to=2026-08-31
// Curva ABC pelo valor de consumo (saídas de estoque) por SKU.
// -------------------------------------------------
func CurveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockMovement{}).
			Where("type = ?", models.StockMovementOut)

		resp := CurveResponse{}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("date >= ?", from)
			resp.From = fromStr
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("date <= ?", to)
			resp.To = toStr
		}

		type row struct {
			Sku         string  `gorm:"column:sku"`
			ProductName string  `gorm:"column:product_name"`
			Value       float64 `gorm:"column:value"`
		}
		var rows []row

		if err := dbq.
			Select("sku, MAX(product_name) as product_name, SUM(quantity * unit_price) as value").
			Group("sku").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular a curva ABC")
		}

		products := make([]ProductValue, 0, len(rows))
		for _, r := range rows {
			products = append(products, ProductValue{
				Sku:         r.Sku,
				ProductName: r.ProductName,
				Value:       r.Value,
			})
		}

		resp.Items, resp.Totals = Classify(products)

		return c.JSON(resp)
	}
}
