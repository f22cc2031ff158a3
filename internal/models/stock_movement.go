package models

import "time"

type StockMovementType string

const (
	StockMovementIn         StockMovementType = "in"         // entrada
	StockMovementOut        StockMovementType = "out"        // saída
	StockMovementAdjustment StockMovementType = "adjustment" // acerto de contagem
)

type StockMovement struct {
	ID          uint              `gorm:"primaryKey"`
	Sku         string            `gorm:"size:50;index;not null"`
	ProductName string            `gorm:"size:150;not null"`
	Type        StockMovementType `gorm:"size:20;not null;index"` // in / out / adjustment
	Quantity    float64           `gorm:"not null"`
	UnitPrice   float64           `gorm:"not null"` // preço unitário no momento do movimento
	Date        time.Time         `gorm:"index;not null"`
	Note        string            `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
