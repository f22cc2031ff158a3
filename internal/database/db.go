package database

import (
	"log"

	"github.com/EWERTON-MARQUES/stockdash/internal/config"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco estabelecida. Migration concluída.")
}

// Migrate roda o AutoMigrate de todos os modelos. Separado do Init para os
// testes poderem usar um banco próprio.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Payable{},
		&models.Receivable{},
		&models.CashMovement{},
		&models.StockMovement{},
		&models.ProductListing{},
		&models.StockSnapshot{},
		&models.AuditLog{},
	)
}
