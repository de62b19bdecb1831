package models

import "time"

// UnitType - Ürünün satış/gösterim birimi.
// Stok her zaman kg (kanonik birim) olarak tutulur; birim tipi sadece
// gösterim ve giriş çevrimini belirler.
type UnitType string

const (
	UnitWeight    UnitType = "weight"     // kg olarak satılır
	UnitPack      UnitType = "pack"       // koli olarak satılır (koli ağırlığı kg)
	UnitGramCount UnitType = "gram_count" // gram bazlı adet olarak satılır (örn. 250gr paket)
)

type Product struct {
	ID       uint     `gorm:"primaryKey"`
	Name     string   `gorm:"size:100;not null;unique"`
	Category string   `gorm:"size:100"`
	UnitType UnitType `gorm:"size:20;not null"`

	// Birim tipine göre zorunlu çevrim katsayıları
	WeightPerPack *float64 // UnitPack için: bir kolinin kg ağırlığı
	GramsPerUnit  *float64 // UnitGramCount için: bir adedin gram ağırlığı

	// Yedi fiyat alanı - müşterinin ödeme kategorisine göre seçilir
	PriceCash         float64 `gorm:"not null"` // Perakende peşin
	PriceCredit       float64 `gorm:"not null"` // Perakende vadeli
	PriceDealerCash   float64 `gorm:"not null"` // Bayi peşin
	PriceDealerCredit float64 `gorm:"not null"` // Bayi vadeli
	PriceHotelNonVAT  float64 `gorm:"not null"` // Otel KDV'siz
	PriceHotelVAT     float64 `gorm:"not null"` // Otel KDV'li
	PriceFarmShop     float64 `gorm:"not null"` // Çiftlik mağaza

	// Depo stoğu, her zaman kg cinsinden
	Quantity float64 `gorm:"not null;default:0"`

	Description string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
