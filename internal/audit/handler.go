package audit

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------------------------------
// GET /api/audit-logs?entity_type=payable&from=2026-08-01&to=2026-08-31&limit=50
// -------------------------------------------------
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		limit := 100
		if limStr := c.Query("limit"); limStr != "" {
			if _, err := fmt.Sscan(limStr, &limit); err != nil || limit <= 0 || limit > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit inválido")
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os logs")
		}

		return c.JSON(logs)
	}
}

// -------------------------------------------------
// POST /api/audit-logs/:id/undo
// -------------------------------------------------
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logID uint
		if _, err := fmt.Sscan(c.Params("id"), &logID); err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Usuário não identificado")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
		}

		if err := UndoLog(logID, user.ID, user.Name); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"message": "Operação desfeita com sucesso"})
	}
}
