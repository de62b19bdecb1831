package inventory

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func validRow(name string) BulkRow {
	return BulkRow{
		Name:              name,
		Category:          "Süt Ürünleri",
		UnitType:          "kg",
		PriceCash:         ptr(100),
		PriceCredit:       ptr(110),
		PriceDealerCash:   ptr(85),
		PriceDealerCredit: ptr(95),
		PriceHotelNonVAT:  ptr(90),
		PriceHotelVAT:     ptr(99),
		PriceFarmShop:     ptr(105),
	}
}

func TestValidateRowsLimit(t *testing.T) {
	_, err := ValidateRows(nil)
	require.Error(t, err)

	rows := make([]BulkRow, MaxBulkRows+1)
	_, err = ValidateRows(rows)
	require.Error(t, err)

	rows = make([]BulkRow, MaxBulkRows)
	_, err = ValidateRows(rows)
	require.NoError(t, err)
}

func TestValidRowIsEligible(t *testing.T) {
	results, err := ValidateRows([]BulkRow{validRow("Beyaz Peynir")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Errors)
	assert.True(t, results[0].Eligible)
}

func TestBlankNameRowIsSkippable(t *testing.T) {
	// İsimsiz satır diğer tüm kurallardan muaftır ama kayda da uygun değildir
	results, err := ValidateRows([]BulkRow{{UnitType: "hatalı", WeightPerPack: ptr(-3)}})
	require.NoError(t, err)
	assert.Empty(t, results[0].Errors)
	assert.False(t, results[0].Eligible)
}

func TestPackRowMissingCategoryAndFactor(t *testing.T) {
	// "Packs" birim tipi tanınır; eksik kategori + sıfır koli ağırlığı
	// tam olarak iki hata üretmeli
	row := validRow("Feed")
	row.Category = ""
	row.UnitType = "Packs"
	row.WeightPerPack = ptr(0)

	results, err := ValidateRows([]BulkRow{row})
	require.NoError(t, err)
	require.Len(t, results[0].Errors, 2)
	assert.Contains(t, results[0].Errors, "kategori zorunlu")
	assert.Contains(t, results[0].Errors, "koli ağırlığı zorunlu ve 0'dan büyük olmalı")
	assert.False(t, results[0].Eligible)
}

func TestGramCountRequiresGramsPerUnit(t *testing.T) {
	row := validRow("Tereyağı 250gr")
	row.UnitType = "gram"

	results, err := ValidateRows([]BulkRow{row})
	require.NoError(t, err)
	require.Len(t, results[0].Errors, 1)
	assert.Contains(t, results[0].Errors[0], "adet gramajı")

	row.GramsPerUnit = ptr(250)
	results, err = ValidateRows([]BulkRow{row})
	require.NoError(t, err)
	assert.True(t, results[0].Eligible)
}

func TestMissingPricesCollected(t *testing.T) {
	row := validRow("Kaşar")
	row.PriceHotelVAT = nil
	row.PriceFarmShop = ptr(0)

	results, err := ValidateRows([]BulkRow{row})
	require.NoError(t, err)
	assert.Len(t, results[0].Errors, 2)
}

func TestNegativeInitialQuantity(t *testing.T) {
	row := validRow("Kaşar")
	row.InitialQuantity = ptr(-1)

	results, err := ValidateRows([]BulkRow{row})
	require.NoError(t, err)
	require.Len(t, results[0].Errors, 1)
	assert.Contains(t, results[0].Errors[0], "başlangıç miktarı")
}

func TestNormalizeUnitType(t *testing.T) {
	tests := []struct {
		in   string
		want models.UnitType
		ok   bool
	}{
		{"kg", models.UnitWeight, true},
		{"koli", models.UnitPack, true},
		{"Packs", models.UnitPack, true},
		{"pack", models.UnitPack, true},
		{"gram", models.UnitGramCount, true},
		{"adet", models.UnitGramCount, true},
		{"", "", false},
		{"litre", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeUnitType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
