package models

import "time"

// StockSnapshot - resumo diário do catálogo externo, uma linha por data.
// Criado somente pelo job de snapshot; rodar de novo no mesmo dia sobrescreve.
type StockSnapshot struct {
	ID            uint      `gorm:"primaryKey"`
	SnapshotDate  time.Time `gorm:"type:date;uniqueIndex;not null"`
	TotalProducts int       `gorm:"not null"`
	TotalStock    float64   `gorm:"not null"` // soma das quantidades disponíveis
	TotalValue    float64   `gorm:"not null"` // soma de preço x quantidade
	LowStockCount int       `gorm:"not null"` // quantidade em (0, 80]
	OutOfStock    int       `gorm:"not null"` // quantidade exatamente 0
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
