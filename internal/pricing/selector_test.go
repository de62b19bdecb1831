package pricing

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleProduct() *models.Product {
	return &models.Product{
		ID:                1,
		Name:              "Kaşar Peyniri",
		PriceCash:         100,
		PriceCredit:       110,
		PriceDealerCash:   85,
		PriceDealerCredit: 95,
		PriceHotelNonVAT:  90,
		PriceHotelVAT:     99,
		PriceFarmShop:     105,
	}
}

func TestSelectPrice(t *testing.T) {
	p := sampleProduct()

	tests := []struct {
		category models.PaymentCategory
		want     float64
	}{
		{models.PaymentCategoryCash, 100},
		{models.PaymentCategoryCredit, 110},
		{models.PaymentCategoryDealerCash, 85},
		{models.PaymentCategoryDealerCredit, 95},
		{models.PaymentCategoryHotelNonVAT, 90},
		{models.PaymentCategoryHotelVAT, 99},
		{models.PaymentCategoryFarmShop, 105},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPrice(p, tt.category))
		})
	}
}

func TestSelectPriceUnknownCategoryFallsBackToCash(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, 100.0, SelectPrice(p, models.PaymentCategory("vip")))
	assert.Equal(t, 100.0, SelectPrice(p, ""))
}

func TestSelectPriceForCustomer(t *testing.T) {
	p := sampleProduct()

	// Kayıtsız müşteri peşin fiyat alır
	assert.Equal(t, 100.0, SelectPriceForCustomer(p, nil))

	c := &models.Customer{PaymentCategory: models.PaymentCategoryDealerCredit}
	assert.Equal(t, 95.0, SelectPriceForCustomer(p, c))
}
