package dashboard

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CashChartPoint struct {
	Label   string  `json:"label"` // dia / início da semana / início do mês
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type CashChartGrandTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type CashChartResponse struct {
	Period      string               `json:"period"` // daily | weekly | monthly
	From        string               `json:"from"`
	To          string               `json:"to"`
	Points      []CashChartPoint     `json:"points"`
	GrandTotals CashChartGrandTotals `json:"grand_totals"`
}

// GET /api/dashboard/cash-chart?period=daily&count=7
func CashChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count inválido")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		switch period {
		case "weekly":
			days := 7 * (count - 1)
			start = end.AddDate(0, 0, -days)
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
		}

		type row struct {
			Bucket    time.Time `gorm:"column:bucket"`
			Direction string    `gorm:"column:direction"`
			Total     float64   `gorm:"column:total"`
		}
		var rows []row

		var sql string
		switch period {
		case "weekly":
			sql = `
				SELECT date_trunc('week', date)::date AS bucket,
					   direction,
					   SUM(amount) AS total
				FROM cash_movements
				WHERE date >= ? AND date <= ?
				GROUP BY bucket, direction
				ORDER BY bucket ASC;
			`
		case "monthly":
			sql = `
				SELECT date_trunc('month', date)::date AS bucket,
					   direction,
					   SUM(amount) AS total
				FROM cash_movements
				WHERE date >= ? AND date < ?
				GROUP BY bucket, direction
				ORDER BY bucket ASC;
			`
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		default: // daily
			sql = `
				SELECT date::date AS bucket,
					   direction,
					   SUM(amount) AS total
				FROM cash_movements
				WHERE date >= ? AND date <= ?
				GROUP BY bucket, direction
				ORDER BY bucket ASC;
			`
		}

		if err := database.DB.Raw(sql, start, end).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o gráfico")
		}

		type bucketAgg struct {
			Bucket  time.Time
			Income  float64
			Expense float64
		}

		buckets := make(map[time.Time]*bucketAgg)

		for _, r := range rows {
			agg, ok := buckets[r.Bucket]
			if !ok {
				agg = &bucketAgg{Bucket: r.Bucket}
				buckets[r.Bucket] = agg
			}

			switch models.CashDirection(r.Direction) {
			case models.CashDirectionIn:
				agg.Income += r.Total
			case models.CashDirectionOut:
				agg.Expense += r.Total
			}
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			ordered = append(ordered, *v)
		}

		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				if ordered[j].Bucket.Before(ordered[i].Bucket) {
					ordered[i], ordered[j] = ordered[j], ordered[i]
				}
			}
		}

		points := make([]CashChartPoint, 0, len(ordered))
		grand := CashChartGrandTotals{}

		for _, b := range ordered {
			points = append(points, CashChartPoint{
				Label:   b.Bucket.Format("2006-01-02"),
				Income:  b.Income,
				Expense: b.Expense,
				Balance: b.Income - b.Expense,
			})

			grand.Income += b.Income
			grand.Expense += b.Expense
		}
		grand.Balance = grand.Income - grand.Expense

		return c.JSON(CashChartResponse{
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		})
	}
}
