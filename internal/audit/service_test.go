package audit_test

import (
	"testing"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/audit"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) models.User {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	user := models.User{Name: "Teste", Email: "teste@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestUndoUpdateRestoresCashMovementDate(t *testing.T) {
	user := setupDB(t)

	original := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mov := models.CashMovement{
		Date:        original,
		Direction:   models.CashDirectionIn,
		Amount:      300,
		Description: "Venda balcão",
	}
	require.NoError(t, database.DB.Create(&mov).Error)

	before := mov
	mov.Date = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	mov.Amount = 500
	require.NoError(t, database.DB.Save(&mov).Error)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		UserID:      user.ID,
		UserName:    user.Name,
		EntityType:  "cash_movement",
		EntityID:    mov.ID,
		Action:      models.AuditActionUpdate,
		Description: "Movimento de caixa atualizado",
		Before:      before,
		After:       mov,
	}))

	var logEntry models.AuditLog
	require.NoError(t, database.DB.First(&logEntry, "action = ?", models.AuditActionUpdate).Error)
	require.NoError(t, audit.UndoLog(logEntry.ID, user.ID, user.Name))

	var restored models.CashMovement
	require.NoError(t, database.DB.First(&restored, mov.ID).Error)
	assert.True(t, restored.Date.Equal(original), "data deveria voltar a %s, veio %s", original, restored.Date)
	assert.InDelta(t, 300, restored.Amount, 1e-9)
	assert.Equal(t, models.CashDirectionIn, restored.Direction)
}

func TestUndoDeleteRecreatesStockMovement(t *testing.T) {
	user := setupDB(t)

	movDate := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	mov := models.StockMovement{
		Sku:         "SKU-1",
		ProductName: "Parafuso",
		Type:        models.StockMovementOut,
		Quantity:    4,
		UnitPrice:   2.5,
		Date:        movDate,
	}
	require.NoError(t, database.DB.Create(&mov).Error)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		UserID:      user.ID,
		UserName:    user.Name,
		EntityType:  "stock_movement",
		EntityID:    mov.ID,
		Action:      models.AuditActionDelete,
		Description: "Movimento de estoque excluído",
		After:       mov,
	}))
	require.NoError(t, database.DB.Delete(&mov).Error)

	var logEntry models.AuditLog
	require.NoError(t, database.DB.First(&logEntry, "action = ?", models.AuditActionDelete).Error)
	require.NoError(t, audit.UndoLog(logEntry.ID, user.ID, user.Name))

	var restored models.StockMovement
	require.NoError(t, database.DB.First(&restored, "sku = ?", "SKU-1").Error)
	assert.True(t, restored.Date.Equal(movDate))
	assert.Equal(t, models.StockMovementOut, restored.Type)
	assert.InDelta(t, 4, restored.Quantity, 1e-9)
	assert.InDelta(t, 2.5, restored.UnitPrice, 1e-9)
}

func TestUndoCreateDeletesEntity(t *testing.T) {
	user := setupDB(t)

	mov := models.CashMovement{
		Date:      time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Direction: models.CashDirectionOut,
		Amount:    80,
	}
	require.NoError(t, database.DB.Create(&mov).Error)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		UserID:      user.ID,
		UserName:    user.Name,
		EntityType:  "cash_movement",
		EntityID:    mov.ID,
		Action:      models.AuditActionCreate,
		Description: "Movimento de caixa criado",
		After:       mov,
	}))

	var logEntry models.AuditLog
	require.NoError(t, database.DB.First(&logEntry, "action = ?", models.AuditActionCreate).Error)
	require.NoError(t, audit.UndoLog(logEntry.ID, user.ID, user.Name))

	var count int64
	require.NoError(t, database.DB.Model(&models.CashMovement{}).Count(&count).Error)
	assert.Zero(t, count)

	// o undo em si também vira log
	var undoCount int64
	require.NoError(t, database.DB.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditActionUndo).Count(&undoCount).Error)
	assert.EqualValues(t, 1, undoCount)
}
