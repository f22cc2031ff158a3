package models

import "time"

type ReceivableStatus string

const (
	ReceivablePending  ReceivableStatus = "pending"
	ReceivableReceived ReceivableStatus = "received"
)

// Receivable - conta a receber (clientes, marketplaces etc.)
type Receivable struct {
	ID          uint             `gorm:"primaryKey"`
	Description string           `gorm:"size:255;not null"`
	Customer    string           `gorm:"size:100"`
	CategoryID  *uint            `gorm:"index"`
	Category    *Category
	Amount      float64          `gorm:"not null"`
	DueDate     time.Time        `gorm:"index;not null"`
	Status      ReceivableStatus `gorm:"size:20;not null;index"` // pending / received
	ReceivedAt  *time.Time
	Notes       string           `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
