package models

import "time"

// StockEntry - Depoya yapılan stok girişi. Quantity ürünün kendi biriminde
// girilir, QuantityKg kanonik (kg) karşılığıdır; ürün stoğu kg üzerinden artar.
type StockEntry struct {
	ID         uint    `gorm:"primaryKey"`
	ProductID  uint    `gorm:"index;not null"`
	Product    Product `gorm:"foreignKey:ProductID"`
	Quantity   float64 `gorm:"not null"` // Ürün biriminde girilen miktar
	QuantityKg float64 `gorm:"not null"` // Kanonik karşılık
	Date       time.Time `gorm:"index;not null"`
	Note       string    `gorm:"size:500"`
	CreatedBy  uint      `gorm:"not null"`
	CreatedAt  time.Time
}
