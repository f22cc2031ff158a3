package snapshot

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/catalog"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LowStockThreshold: quantidade <= 80 (e > 0) conta como estoque baixo
const LowStockThreshold = 80.0

// Stats - agregados calculados sobre o catálogo inteiro
type Stats struct {
	TotalProducts int     `json:"total_products"`
	TotalStock    float64 `json:"total_stock"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
	OutOfStock    int     `json:"out_of_stock_count"`
}

// ComputeStats calcula os agregados do snapshot. Quantidade 0 conta como
// esgotado, quantidade em (0, 80] como estoque baixo; nunca os dois.
func ComputeStats(items []catalog.Product) Stats {
	var s Stats
	s.TotalProducts = len(items)

	for _, it := range items {
		s.TotalStock += it.Quantity
		s.TotalValue += it.Price * it.Quantity

		switch {
		case it.Quantity == 0:
			s.OutOfStock++
		case it.Quantity > 0 && it.Quantity <= LowStockThreshold:
			s.LowStockCount++
		}
	}

	return s
}

// Run executa o job: busca o catálogo inteiro, calcula os agregados e grava
// (upsert) a linha do dia. A data é a data local do servidor, truncada para
// meia-noite; rodar duas vezes no mesmo dia sobrescreve a linha existente.
func Run(db *gorm.DB, client *catalog.Client) (*models.StockSnapshot, Stats, error) {
	items, err := client.FetchAllProducts()
	if err != nil {
		return nil, Stats{}, err
	}

	stats := ComputeStats(items)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	row := models.StockSnapshot{
		SnapshotDate:  today,
		TotalProducts: stats.TotalProducts,
		TotalStock:    stats.TotalStock,
		TotalValue:    stats.TotalValue,
		LowStockCount: stats.LowStockCount,
		OutOfStock:    stats.OutOfStock,
	}

	// Uma única escrita no final: do ponto de vista do chamador o job é
	// atômico, e execuções concorrentes no mesmo dia terminam em last-write-wins
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_products", "total_stock", "total_value",
			"low_stock_count", "out_of_stock", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, Stats{}, fmt.Errorf("não foi possível gravar o snapshot: %w", err)
	}

	var saved models.StockSnapshot
	if err := db.Where("snapshot_date = ?", today).First(&saved).Error; err != nil {
		return nil, Stats{}, fmt.Errorf("não foi possível reler o snapshot gravado: %w", err)
	}

	return &saved, stats, nil
}
