package database

import (
	"log"

	"dagitim-backend/internal/config"
	"dagitim-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Customer{},
		&models.StockEntry{},
		&models.Assignment{},
		&models.AssignmentItem{},
		&models.Sale{},
		&models.CollectionEntry{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Satış satırları geçmiş işlem olarak referans verdiği sürece ürün silinemesin
	if DB.Migrator().HasTable(&models.Sale{}) {
		if fkErr := DB.Exec(`
			ALTER TABLE sales
			DROP CONSTRAINT IF EXISTS fk_sales_product,
			ADD CONSTRAINT fk_sales_product
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
		`).Error; fkErr != nil {
			log.Printf("Sale foreign key constraint eklenirken hata: %v", fkErr)
		}
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
