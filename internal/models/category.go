package models

import "time"

type CategoryKind string

const (
	CategoryKindProduct CategoryKind = "product"
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

type Category struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null"`
	Kind      CategoryKind `gorm:"size:20;not null;index"` // product / expense / income
	CreatedAt time.Time
	UpdatedAt time.Time
}
