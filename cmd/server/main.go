package main

import (
	"log"
	"strings"

	"github.com/EWERTON-MARQUES/stockdash/internal/abc"
	"github.com/EWERTON-MARQUES/stockdash/internal/audit"
	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/cashflow"
	"github.com/EWERTON-MARQUES/stockdash/internal/categories"
	"github.com/EWERTON-MARQUES/stockdash/internal/config"
	"github.com/EWERTON-MARQUES/stockdash/internal/dashboard"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/listings"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"
	"github.com/EWERTON-MARQUES/stockdash/internal/payables"
	"github.com/EWERTON-MARQUES/stockdash/internal/receivables"
	"github.com/EWERTON-MARQUES/stockdash/internal/snapshot"
	"github.com/EWERTON-MARQUES/stockdash/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	// CORS: origens vêm como string separada por vírgula
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Job-Token",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth público
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Job de snapshot: aceita JWT de usuário ou o token do agendador
	jobRoutes := api.Group("/stock-snapshots")
	jobRoutes.Use(snapshot.JobAuthMiddleware(cfg))
	jobRoutes.Post("/run", snapshot.RunHandler())
	jobRoutes.Get("/", snapshot.ListHandler())

	// Rotas protegidas por JWT
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rotas de admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Post("/categories", categories.CreateCategoryHandler())
	adminRoutes.Put("/categories/:id", categories.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", categories.DeleteCategoryHandler())

	// Categorias
	protected.Get("/categories", categories.ListCategoriesHandler())

	// Contas a pagar
	protected.Post("/payables", payables.CreatePayableHandler())
	protected.Get("/payables", payables.ListPayablesHandler())
	protected.Get("/payables/summary/monthly", payables.MonthlySummaryHandler())
	protected.Get("/payables/:id", payables.GetPayableHandler())
	protected.Put("/payables/:id", payables.UpdatePayableHandler())
	protected.Delete("/payables/:id", payables.DeletePayableHandler())
	protected.Post("/payables/:id/pay", payables.PayPayableHandler())

	// Contas a receber
	protected.Post("/receivables", receivables.CreateReceivableHandler())
	protected.Get("/receivables", receivables.ListReceivablesHandler())
	protected.Get("/receivables/summary/monthly", receivables.MonthlySummaryHandler())
	protected.Get("/receivables/:id", receivables.GetReceivableHandler())
	protected.Put("/receivables/:id", receivables.UpdateReceivableHandler())
	protected.Delete("/receivables/:id", receivables.DeleteReceivableHandler())
	protected.Post("/receivables/:id/receive", receivables.ReceiveReceivableHandler())

	// Fluxo de caixa
	protected.Post("/cash-movements", cashflow.CreateCashMovementHandler())
	protected.Get("/cash-movements", cashflow.ListCashMovementsHandler())
	protected.Get("/cash-movements/summary/monthly", cashflow.MonthlySummaryHandler())

	// Resumo financeiro (diário, semanal, mensal)
	protected.Get("/financial-summary/daily", cashflow.GetDailyFinancialSummaryHandler())
	protected.Get("/financial-summary/weekly", cashflow.GetWeeklyFinancialSummaryHandler())
	protected.Get("/financial-summary/monthly", cashflow.GetMonthlyFinancialSummaryHandler())

	// Movimentos de estoque
	protected.Post("/stock-movements", stock.CreateStockMovementHandler())
	protected.Get("/stock-movements", stock.ListStockMovementsHandler())
	protected.Get("/stock-movements/position", stock.StockPositionHandler())
	protected.Post("/stock-movements/import", stock.ImportStockMovementsHandler())

	// Curva ABC
	protected.Get("/reports/abc-curve", abc.CurveHandler())

	// Produtos x marketplaces
	protected.Post("/product-listings", listings.UpsertListingHandler())
	protected.Get("/product-listings", listings.ListListingsHandler())
	protected.Put("/product-listings/:id", listings.UpdateListingHandler())
	protected.Delete("/product-listings/:id", listings.DeleteListingHandler())

	// Dashboard
	protected.Get("/dashboard/cash-chart", dashboard.CashChartHandler())

	// Auditoria
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
