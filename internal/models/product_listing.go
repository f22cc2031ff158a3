package models

import "time"

// ProductListing - em quais marketplaces o produto está publicado
type ProductListing struct {
	ID           uint   `gorm:"primaryKey"`
	Sku          string `gorm:"size:50;uniqueIndex;not null"`
	ProductName  string `gorm:"size:150;not null"`
	Mercos       bool   `gorm:"not null;default:false"`
	MercadoLivre bool   `gorm:"not null;default:false"`
	Shopee       bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
