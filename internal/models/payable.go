package models

import "time"

type PayableStatus string

const (
	PayablePending PayableStatus = "pending"
	PayablePaid    PayableStatus = "paid"
)

// Payable - conta a pagar (fornecedores, despesas fixas etc.)
type Payable struct {
	ID          uint          `gorm:"primaryKey"`
	Description string        `gorm:"size:255;not null"`
	Supplier    string        `gorm:"size:100"`
	CategoryID  *uint         `gorm:"index"`
	Category    *Category
	Amount      float64       `gorm:"not null"`
	DueDate     time.Time     `gorm:"index;not null"`   // vencimento
	Status      PayableStatus `gorm:"size:20;not null;index"` // pending / paid
	PaidAt      *time.Time
	Notes       string        `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
