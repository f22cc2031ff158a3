package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	// Before/After recebem o próprio modelo; o undo faz Unmarshal
	// do JSON de volta no mesmo tipo.
	Before any
	After  any
}

func WriteLog(opts LogOptions) error {
	// Para jsonb do PostgreSQL precisamos do literal "null", não de string vazia
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("não foi possível gravar o log de auditoria: %w", err)
	}

	return nil
}

// UndoLog desfaz a operação registrada em um log de auditoria.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log não encontrado: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("esta operação já foi desfeita")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// create -> apaga a entidade
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("não foi possível apagar a entidade: %w", err)
		}

	case models.AuditActionUpdate:
		// update -> restaura o estado anterior
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("não foi possível restaurar a entidade: %w", err)
		}

	case models.AuditActionDelete:
		// delete -> recria a entidade
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("não foi possível recriar a entidade: %w", err)
		}

	default:
		return fmt.Errorf("este tipo de operação não pode ser desfeito")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("não foi possível atualizar o log: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Desfeito: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("não foi possível gravar o log de undo: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "payable":
		return database.DB.Delete(&models.Payable{}, "id = ?", entityID).Error
	case "receivable":
		return database.DB.Delete(&models.Receivable{}, "id = ?", entityID).Error
	case "cash_movement":
		return database.DB.Delete(&models.CashMovement{}, "id = ?", entityID).Error
	case "stock_movement":
		return database.DB.Delete(&models.StockMovement{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "payable":
		var p models.Payable
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		p.ID = 0
		return database.DB.Create(&p).Error

	case "receivable":
		var r models.Receivable
		if err := json.Unmarshal([]byte(dataJSON), &r); err != nil {
			return err
		}
		r.ID = 0
		return database.DB.Create(&r).Error

	case "cash_movement":
		var m models.CashMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		m.ID = 0
		return database.DB.Create(&m).Error

	case "stock_movement":
		var m models.StockMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		m.ID = 0
		return database.DB.Create(&m).Error

	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "payable":
		var p models.Payable
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return database.DB.Model(&models.Payable{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"description": p.Description,
			"supplier":    p.Supplier,
			"category_id": p.CategoryID,
			"amount":      p.Amount,
			"due_date":    p.DueDate,
			"status":      p.Status,
			"paid_at":     p.PaidAt,
			"notes":       p.Notes,
		}).Error

	case "receivable":
		var r models.Receivable
		if err := json.Unmarshal([]byte(dataJSON), &r); err != nil {
			return err
		}
		return database.DB.Model(&models.Receivable{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"description": r.Description,
			"customer":    r.Customer,
			"category_id": r.CategoryID,
			"amount":      r.Amount,
			"due_date":    r.DueDate,
			"status":      r.Status,
			"received_at": r.ReceivedAt,
			"notes":       r.Notes,
		}).Error

	case "cash_movement":
		var m models.CashMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		return database.DB.Model(&models.CashMovement{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"date":        m.Date,
			"direction":   m.Direction,
			"amount":      m.Amount,
			"description": m.Description,
			"category_id": m.CategoryID,
		}).Error

	case "stock_movement":
		var m models.StockMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		return database.DB.Model(&models.StockMovement{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"sku":          m.Sku,
			"product_name": m.ProductName,
			"type":         m.Type,
			"quantity":     m.Quantity,
			"unit_price":   m.UnitPrice,
			"date":         m.Date,
			"note":         m.Note,
		}).Error

	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}
}
