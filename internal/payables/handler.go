package payables

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/audit"
	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePayableRequest struct {
	Description string  `json:"description"`
	Supplier    string  `json:"supplier"`
	CategoryID  *uint   `json:"category_id"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"` // "2026-08-28"
	Notes       string  `json:"notes"`
}

type UpdatePayableRequest struct {
	Description *string  `json:"description"`
	Supplier    *string  `json:"supplier"`
	CategoryID  *uint    `json:"category_id"`
	Amount      *float64 `json:"amount"`
	DueDate     *string  `json:"due_date"`
	Notes       *string  `json:"notes"`
}

type PayableResponse struct {
	ID          uint                 `json:"id"`
	Description string               `json:"description"`
	Supplier    string               `json:"supplier"`
	CategoryID  *uint                `json:"category_id"`
	Amount      float64              `json:"amount"`
	DueDate     string               `json:"due_date"`
	Status      models.PayableStatus `json:"status"`
	PaidAt      *string              `json:"paid_at"`
	Notes       string               `json:"notes"`
}

type MonthlySummaryResponse struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalPending float64 `json:"total_pending"`
	TotalPaid    float64 `json:"total_paid"`
	OverdueCount int64   `json:"overdue_count"`
	GrandTotal   float64 `json:"grand_total"`
}

func toResponse(p *models.Payable) PayableResponse {
	resp := PayableResponse{
		ID:          p.ID,
		Description: p.Description,
		Supplier:    p.Supplier,
		CategoryID:  p.CategoryID,
		Amount:      p.Amount,
		DueDate:     p.DueDate.Format("2006-01-02"),
		Status:      p.Status,
		Notes:       p.Notes,
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format("2006-01-02")
		resp.PaidAt = &s
	}
	return resp
}

// Helper: usuário autenticado para o log de auditoria
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
// POST /api/payables
// -------------------------------------------------
func CreatePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePayableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Descrição é obrigatória")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que 0")
		}

		due, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data de vencimento inválida, use 'YYYY-MM-DD'")
		}

		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
			}
		}

		p := models.Payable{
			Description: body.Description,
			Supplier:    body.Supplier,
			CategoryID:  body.CategoryID,
			Amount:      body.Amount,
			DueDate:     due,
			Status:      models.PayablePending,
			Notes:       body.Notes,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payable",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Conta a pagar criada: %s - R$ %.2f", p.Description, p.Amount),
				After:       p,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&p))
	}
}

// -------------------------------------------------
// GET /api/payables?from=2026-08-01&to=2026-08-31&status=pending&category_id=1
// -------------------------------------------------
func ListPayablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payable{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("due_date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("due_date <= ?", to)
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		if catStr := c.Query("category_id"); catStr != "" {
			var catID uint
			if _, err := fmt.Sscan(catStr, &catID); err != nil || catID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "category_id inválido")
			}
			dbq = dbq.Where("category_id = ?", catID)
		}

		var items []models.Payable
		if err := dbq.Order("due_date asc, id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
		}

		resp := make([]PayableResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toResponse(&items[i]))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/payables/:id
// -------------------------------------------------
func GetPayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var p models.Payable
		if err := database.DB.First(&p, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		return c.JSON(toResponse(&p))
	}
}

// -------------------------------------------------
// PUT /api/payables/:id
// -------------------------------------------------
func UpdatePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var p models.Payable
		if err := database.DB.First(&p, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		before := p

		var body UpdatePayableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description != nil {
			if *body.Description == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Descrição não pode ficar vazia")
			}
			p.Description = *body.Description
		}
		if body.Supplier != nil {
			p.Supplier = *body.Supplier
		}
		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
			}
			p.CategoryID = body.CategoryID
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que 0")
			}
			p.Amount = *body.Amount
		}
		if body.DueDate != nil {
			due, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data de vencimento inválida, use 'YYYY-MM-DD'")
			}
			p.DueDate = due
		}
		if body.Notes != nil {
			p.Notes = *body.Notes
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payable",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Conta a pagar atualizada: %s", p.Description),
				Before:      before,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(&p))
	}
}

// -------------------------------------------------
// DELETE /api/payables/:id
// -------------------------------------------------
func DeletePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var p models.Payable
		if err := database.DB.First(&p, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payable",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Conta a pagar excluída: %s - R$ %.2f", p.Description, p.Amount),
				After:       p,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------------------------------
// POST /api/payables/:id/pay
// Marca como paga e espelha a saída no fluxo de caixa.
// -------------------------------------------------
func PayPayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var p models.Payable
		if err := database.DB.First(&p, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		if p.Status == models.PayablePaid {
			return fiber.NewError(fiber.StatusBadRequest, "Conta já está paga")
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// pagamento + movimento de caixa na mesma transação
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			p.Status = models.PayablePaid
			p.PaidAt = &today
			if err := tx.Save(&p).Error; err != nil {
				return err
			}

			mov := models.CashMovement{
				Date:        today,
				Direction:   models.CashDirectionOut,
				Amount:      p.Amount,
				Description: fmt.Sprintf("Pagamento: %s", p.Description),
				CategoryID:  p.CategoryID,
			}
			return tx.Create(&mov).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o pagamento")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payable",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Conta paga: %s - R$ %.2f", p.Description, p.Amount),
				After:       p,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(&p))
	}
}

// -------------------------------------------------
// GET /api/payables/summary/monthly?year=2026&month=8
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
		end := start.AddDate(0, 1, -1) // último dia do mês

		type row struct {
			Status string  `gorm:"column:status"`
			Total  float64 `gorm:"column:total"`
		}
		var rows []row

		if err := database.DB.Model(&models.Payable{}).
			Select("status, SUM(amount) as total").
			Where("due_date >= ? AND due_date <= ?", start, end).
			Group("status").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		resp := MonthlySummaryResponse{Year: year, Month: month}
		for _, r := range rows {
			switch models.PayableStatus(r.Status) {
			case models.PayablePending:
				resp.TotalPending = r.Total
			case models.PayablePaid:
				resp.TotalPaid = r.Total
			}
			resp.GrandTotal += r.Total
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if err := database.DB.Model(&models.Payable{}).
			Where("due_date >= ? AND due_date <= ? AND due_date < ? AND status = ?", start, end, today, models.PayablePending).
			Count(&resp.OverdueCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		return c.JSON(resp)
	}
}
