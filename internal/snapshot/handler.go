package snapshot

import (
	"crypto/subtle"
	"log"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/catalog"
	"github.com/EWERTON-MARQUES/stockdash/internal/config"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RunRequest struct {
	APIBaseURL string `json:"api_base_url"`
	APIToken   string `json:"api_token"`
}

type SnapshotResponse struct {
	ID            uint    `json:"id"`
	SnapshotDate  string  `json:"snapshot_date"`
	TotalProducts int     `json:"total_products"`
	TotalStock    float64 `json:"total_stock"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
	OutOfStock    int     `json:"out_of_stock_count"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toResponse(s *models.StockSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:            s.ID,
		SnapshotDate:  s.SnapshotDate.Format("2006-01-02"),
		TotalProducts: s.TotalProducts,
		TotalStock:    s.TotalStock,
		TotalValue:    s.TotalValue,
		LowStockCount: s.LowStockCount,
		OutOfStock:    s.OutOfStock,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

// JobAuthMiddleware aceita o token compartilhado do agendador (X-Job-Token)
// ou, na falta dele, um JWT de usuário normal. A identidade é verificada
// antes de qualquer chamada à API externa.
func JobAuthMiddleware(cfg *config.Config) fiber.Handler {
	jwtMiddleware := auth.JWTMiddleware(cfg)
	return func(c *fiber.Ctx) error {
		jobToken := c.Get("X-Job-Token")
		if jobToken != "" {
			if cfg.SnapshotJobToken == "" ||
				subtle.ConstantTimeCompare([]byte(jobToken), []byte(cfg.SnapshotJobToken)) != 1 {
				return fiber.NewError(fiber.StatusUnauthorized, "Token do agendador inválido")
			}
			return c.Next()
		}
		return jwtMiddleware(c)
	}
}

// -------------------------------------------------
// POST /api/stock-snapshots/run
// -------------------------------------------------
func RunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RunRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		// validação antes de qualquer chamada de rede
		client, err := catalog.NewClient(body.APIBaseURL, body.APIToken)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "URL ou token da API inválidos")
		}

		row, stats, err := Run(database.DB, client)
		if err != nil {
			// não vazar detalhe do upstream para o chamador
			log.Printf("Job de snapshot falhou: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o snapshot")
		}

		return c.JSON(fiber.Map{
			"snapshot": toResponse(row),
			"stats":    stats,
		})
	}
}

// -------------------------------------------------
// GET /api/stock-snapshots?from=2026-08-01&to=2026-08-31
// -------------------------------------------------
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockSnapshot{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("snapshot_date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("snapshot_date <= ?", to)
		}

		var rows []models.StockSnapshot
		if err := dbq.Order("snapshot_date asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os snapshots")
		}

		resp := make([]SnapshotResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toResponse(&rows[i]))
		}

		return c.JSON(resp)
	}
}
