package receivables

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

type CreateReceivableRequest struct {
	Description string  `json:"description"`
	Customer    string  `json:"customer"`
	CategoryID  *uint   `json:"category_id"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"`
	Notes       string  `json:"notes"`
}

type UpdateReceivableRequest struct {
	Description *string  `json:"description"`
	Customer    *string  `json:"customer"`
	CategoryID  *uint    `json:"category_id"`
	Amount      *float64 `json:"amount"`
	DueDate     *string  `json:"due_date"`
	Notes       *string  `json:"notes"`
}

type ReceivableResponse struct {
	ID          uint                    `json:"id"`
	Description string                  `json:"description"`
	Customer    string                  `json:"customer"`
	CategoryID  *uint                   `json:"category_id"`
	Amount      float64                 `json:"amount"`
	DueDate     string                  `json:"due_date"`
	Status      models.ReceivableStatus `json:"status"`
	ReceivedAt  *string                 `json:"received_at"`
	Notes       string                  `json:"notes"`
}

type MonthlySummaryResponse struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalPending  float64 `json:"total_pending"`
	TotalReceived float64 `json:"total_received"`
	OverdueCount  int64   `json:"overdue_count"`
	GrandTotal    float64 `json:"grand_total"`
}

func toResponse(r *models.Receivable) ReceivableResponse {
	resp := ReceivableResponse{
		ID:          r.ID,
		Description: r.Description,
		Customer:    r.Customer,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		DueDate:     r.DueDate.Format("2006-01-02"),
		Status:      r.Status,
		Notes:       r.Notes,
	}
	if r.ReceivedAt != nil {
		s := r.ReceivedAt.Format("2006-01-02")
		resp.ReceivedAt = &s
	}
	return resp
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
// POST /api/receivables
// -------------------------------------------------
func CreateReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReceivableRequest
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

		r := models.Receivable{
			Description: body.Description,
			Customer:    body.Customer,
			CategoryID:  body.CategoryID,
			Amount:      body.Amount,
			DueDate:     due,
			Status:      models.ReceivablePending,
			Notes:       body.Notes,
		}

		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receivable",
				EntityID:    r.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Conta a receber criada: %s - R$ %.2f", r.Description, r.Amount),
				After:       r,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&r))
	}
}

// -------------------------------------------------
// GET /api/receivables?from=2026-08-01&to=2026-08-31&status=pending&category_id=1
// -------------------------------------------------
func ListReceivablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Receivable{})

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

		var items []models.Receivable
		if err := dbq.Order("due_date asc, id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
		}

		resp := make([]ReceivableResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toResponse(&items[i]))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/receivables/:id
// -------------------------------------------------
func GetReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var r models.Receivable
		if err := database.DB.First(&r, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		return c.JSON(toResponse(&r))
	}
}

// -------------------------------------------------
// PUT /api/receivables/:id
// -------------------------------------------------
func UpdateReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var r models.Receivable
		if err := database.DB.First(&r, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		before := r

		var body UpdateReceivableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description != nil {
			if *body.Description == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Descrição não pode ficar vazia")
			}
			r.Description = *body.Description
		}
		if body.Customer != nil {
			r.Customer = *body.Customer
		}
		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Categoria não encontrada")
			}
			r.CategoryID = body.CategoryID
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que 0")
			}
			r.Amount = *body.Amount
		}
		if body.DueDate != nil {
			due, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data de vencimento inválida, use 'YYYY-MM-DD'")
			}
			r.DueDate = due
		}
		if body.Notes != nil {
			r.Notes = *body.Notes
		}

		if err := database.DB.Save(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receivable",
				EntityID:    r.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Conta a receber atualizada: %s", r.Description),
				Before:      before,
				After:       r,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(&r))
	}
}

// -------------------------------------------------
// DELETE /api/receivables/:id
// -------------------------------------------------
func DeleteReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var r models.Receivable
		if err := database.DB.First(&r, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		if err := database.DB.Delete(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a conta")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receivable",
				EntityID:    r.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Conta a receber excluída: %s - R$ %.2f", r.Description, r.Amount),
				After:       r,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------------------------------
// POST /api/receivables/:id/receive
// Marca como recebida e espelha a entrada no fluxo de caixa.
// -------------------------------------------------
func ReceiveReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var r models.Receivable
		if err := database.DB.First(&r, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Conta não encontrada")
		}

		if r.Status == models.ReceivableReceived {
			return fiber.NewError(fiber.StatusBadRequest, "Conta já foi recebida")
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			r.Status = models.ReceivableReceived
			r.ReceivedAt = &today
			if err := tx.Save(&r).Error; err != nil {
				return err
			}

			mov := models.CashMovement{
				Date:        today,
				Direction:   models.CashDirectionIn,
				Amount:      r.Amount,
				Description: fmt.Sprintf("Recebimento: %s", r.Description),
				CategoryID:  r.CategoryID,
			}
			return tx.Create(&mov).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o recebimento")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receivable",
				EntityID:    r.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Conta recebida: %s - R$ %.2f", r.Description, r.Amount),
				After:       r,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(&r))
	}
}

// -------------------------------------------------
// GET /api/receivables/summary/monthly?year=2026&month=8
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

		type row struct {
			Status string  `gorm:"column:status"`
			Total  float64 `gorm:"column:total"`
		}
		var rows []row

		if err := database.DB.Model(&models.Receivable{}).
			Select("status, SUM(amount) as total").
			Where("due_date >= ? AND due_date <= ?", start, end).
			Group("status").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		resp := MonthlySummaryResponse{Year: year, Month: month}
		for _, r := range rows {
			switch models.ReceivableStatus(r.Status) {
			case models.ReceivablePending:
				resp.TotalPending = r.Total
			case models.ReceivableReceived:
				resp.TotalReceived = r.Total
			}
			resp.GrandTotal += r.Total
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if err := database.DB.Model(&models.Receivable{}).
			Where("due_date >= ? AND due_date <= ? AND due_date < ? AND status = ?", start, end, today, models.ReceivablePending).
			Count(&resp.OverdueCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		return c.JSON(resp)
	}
}
