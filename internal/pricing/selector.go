package pricing

import (
	"dagitim-backend/internal/logger"
	"dagitim-backend/internal/models"
)

// WalkInCategory - Kayıtsız (kapıdan) müşteri için örtük varsayılan;
// perakende peşin fiyata denk gelir.
const WalkInCategory = models.PaymentCategoryCash

// SelectPrice - Müşterinin ödeme kategorisini ürünün yedi fiyat alanından
// birine eşler. Tanınmayan kategori finansal kayıt değil UI varsayılanı
// olduğu için sert hata üretmez: peşin fiyata düşer ve log'a uyarı yazar.
func SelectPrice(p *models.Product, category models.PaymentCategory) float64 {
	switch category {
	case models.PaymentCategoryCash:
		return p.PriceCash
	case models.PaymentCategoryCredit:
		return p.PriceCredit
	case models.PaymentCategoryDealerCash:
		return p.PriceDealerCash
	case models.PaymentCategoryDealerCredit:
		return p.PriceDealerCredit
	case models.PaymentCategoryHotelNonVAT:
		return p.PriceHotelNonVAT
	case models.PaymentCategoryHotelVAT:
		return p.PriceHotelVAT
	case models.PaymentCategoryFarmShop:
		return p.PriceFarmShop
	case "":
		// Kayıtsız müşteri
		return p.PriceCash
	default:
		logger.Log().Warnw("tanınmayan ödeme kategorisi, peşin fiyat kullanılıyor",
			"category", category, "product_id", p.ID)
		return p.PriceCash
	}
}

// SelectPriceForCustomer - Müşteri kaydı yoksa (kapıdan satış) peşin fiyat uygulanır
func SelectPriceForCustomer(p *models.Product, customer *models.Customer) float64 {
	if customer == nil {
		return SelectPrice(p, WalkInCategory)
	}
	return SelectPrice(p, customer.PaymentCategory)
}
