package models

import "time"

type CashDirection string

const (
	CashDirectionIn  CashDirection = "in"  // entrada
	CashDirectionOut CashDirection = "out" // saída
)

type CashMovement struct {
	ID          uint          `gorm:"primaryKey"`
	Date        time.Time     `gorm:"index;not null"`   // dia do movimento
	Direction   CashDirection `gorm:"size:10;not null"` // in / out
	Amount      float64       `gorm:"not null"`
	Description string        `gorm:"size:255"`
	CategoryID  *uint         `gorm:"index"`
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
