package cashflow

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/audit"
	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCashMovementRequest struct {
	Date        *string              `json:"date"`      // "2026-08-28", vazio = hoje
	Direction   models.CashDirection `json:"direction"` // "in" | "out"
	Amount      float64              `json:"amount"`
	Description string               `json:"description"`
	CategoryID  *uint                `json:"category_id"`
}

type CashMovementResponse struct {
	ID          uint                 `json:"id"`
	Date        string               `json:"date"`
	Direction   models.CashDirection `json:"direction"`
	Amount      float64              `json:"amount"`
	Description string               `json:"description"`
	CategoryID  *uint                `json:"category_id"`
}

type MonthlySummaryResponse struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

func toResponse(m *models.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:          m.ID,
		Date:        m.Date.Format("2006-01-02"),
		Direction:   m.Direction,
		Amount:      m.Amount,
		Description: m.Description,
		CategoryID:  m.CategoryID,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Usuário não identificado")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
	}

	return userID, user.Name, nil
}

// -------------------------------------------------
// POST /api/cash-movements
// -------------------------------------------------
func CreateCashMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCashMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que 0")
		}

		switch body.Direction {
		case models.CashDirectionIn, models.CashDirectionOut:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Direção inválida (in|out)")
		}

		var date time.Time
		if body.Date == nil || *body.Date == "" {
			now := time.Now()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use 'YYYY-MM-DD'")
			}
			date = d
		}

		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
			}
		}

		mov := models.CashMovement{
			Date:        date,
			Direction:   body.Direction,
			Amount:      body.Amount,
			Description: body.Description,
			CategoryID:  body.CategoryID,
		}

		if err := database.DB.Create(&mov).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o movimento")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "cash_movement",
				EntityID:    mov.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Movimento de caixa (%s): R$ %.2f", mov.Direction, mov.Amount),
				After:       mov,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&mov))
	}
}

// -------------------------------------------------
// GET /api/cash-movements?from=2026-08-01&to=2026-08-31&direction=in
// -------------------------------------------------
func ListCashMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.CashMovement{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		if dir := c.Query("direction"); dir != "" {
			dbq = dbq.Where("direction = ?", dir)
		}

		var movs []models.CashMovement
		if err := dbq.Order("date asc, id asc").Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os movimentos")
		}

		resp := make([]CashMovementResponse, 0, len(movs))
		for i := range movs {
			resp = append(resp, toResponse(&movs[i]))
		}

		return c.JSON(resp)
	}
}

// soma entradas e saídas no intervalo [start, end]
func sumDirections(start, end time.Time) (income, expense float64, err error) {
	type row struct {
		Direction string  `gorm:"column:direction"`
		Total     float64 `gorm:"column:total"`
	}
	var rows []row

	err = database.DB.Model(&models.CashMovement{}).
		Select("direction, SUM(amount) as total").
		Where("date >= ? AND date <= ?", start, end).
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	for _, r := range rows {
		switch models.CashDirection(r.Direction) {
		case models.CashDirectionIn:
			income = r.Total
		case models.CashDirectionOut:
			expense = r.Total
		}
	}
	return income, expense, nil
}

// -------------------------------------------------
// GET /api/cash-movements/summary/monthly?year=2026&month=8
// -------------------------------------------------
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year e month são obrigatórios")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year inválido")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month inválido")
		}

		loc := time.Now().Location()
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, -1)

		income, expense, err := sumDirections(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		return c.JSON(MonthlySummaryResponse{
			Year:         year,
			Month:        month,
			TotalIncome:  income,
			TotalExpense: expense,
			Balance:      income - expense,
		})
	}
}

type FinancialSummaryResponse struct {
	Period  string  `json:"period"` // daily | weekly | monthly
	From    string  `json:"from"`
	To      string  `json:"to"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

func financialSummary(c *fiber.Ctx, period string, start, end time.Time) error {
	income, expense, err := sumDirections(start, end)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
	}

	return c.JSON(FinancialSummaryResponse{
		Period:  period,
		From:    start.Format("2006-01-02"),
		To:      end.Format("2006-01-02"),
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	})
}

// data de referência (?date=YYYY-MM-DD, default hoje)
func refDate(c *fiber.Ctx) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "date inválida, use 'YYYY-MM-DD'")
	}
	return d, nil
}

// -------------------------------------------------
// GET /api/financial-summary/daily?date=2026-08-28
// -------------------------------------------------
func GetDailyFinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := refDate(c)
		if err != nil {
			return err
		}
		return financialSummary(c, "daily", day, day)
	}
}

// -------------------------------------------------
// GET /api/financial-summary/weekly?date=2026-08-28
// Semana de segunda a domingo contendo a data.
// -------------------------------------------------
func GetWeeklyFinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := refDate(c)
		if err != nil {
			return err
		}

		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7 // domingo fecha a semana
		}
		start := day.AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 6)

		return financialSummary(c, "weekly", start, end)
	}
}

// -------------------------------------------------
// GET /api/financial-summary/monthly?year=2026&month=8
// -------------------------------------------------
func GetMonthlyFinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year e month são obrigatórios")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year inválido")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month inválido")
		}

		loc := time.Now().Location()
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, -1)

		return financialSummary(c, "monthly", start, end)
	}
}
