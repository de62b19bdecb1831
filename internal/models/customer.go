package models

import "time"

// PaymentCategory - Müşterinin fiyat sınıfı. Kapalı küme; ürün üzerindeki
// yedi fiyat alanından hangisinin uygulanacağını belirler.
type PaymentCategory string

const (
	PaymentCategoryCash        PaymentCategory = "cash"          // Perakende peşin
	PaymentCategoryCredit      PaymentCategory = "credit"        // Perakende vadeli
	PaymentCategoryDealerCash  PaymentCategory = "dealer_cash"   // Bayi peşin
	PaymentCategoryDealerCredit PaymentCategory = "dealer_credit" // Bayi vadeli
	PaymentCategoryHotelNonVAT PaymentCategory = "hotel_non_vat" // Otel KDV'siz
	PaymentCategoryHotelVAT    PaymentCategory = "hotel_vat"     // Otel KDV'li
	PaymentCategoryFarmShop    PaymentCategory = "farm_shop"     // Çiftlik mağaza
)

type Customer struct {
	ID              uint            `gorm:"primaryKey"`
	Name            string          `gorm:"size:100;not null"`
	Phone           string          `gorm:"size:20"`
	Address         string          `gorm:"size:300"`
	PaymentCategory PaymentCategory `gorm:"size:20;not null;default:'cash'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
