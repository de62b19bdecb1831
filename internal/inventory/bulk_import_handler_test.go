package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantNil bool
		wantErr bool
	}{
		{"100", 100, false, false},
		{"12.5", 12.5, false, false},
		{"12,5", 12.5, false, false},
		{"1.250,75", 1250.75, false, false}, // Türkçe binlik ayracı
		{"1.250", 1250, false, false},       // virgülsüz binlik nokta
		{"1.250.000", 1250000, false, false},
		{"-1.250", -1250, false, false},
		{"1.2345", 1.2345, false, false}, // binlik kalıbına uymaz, ondalık nokta
		{"  42  ", 42, false, false},
		{"", 0, true, false},
		{"abc", 0, false, true},
	}

	for _, tt := range tests {
		got, err := parseCellFloat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		if tt.wantNil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, tt.want, *got, 1e-9, tt.in)
	}
}

func TestRowFromCells(t *testing.T) {
	cells := []string{
		"Beyaz Peynir", "Süt Ürünleri", "kg", "", "", "50",
		"100", "110", "85", "95", "90", "99", "105", "Açıklama",
	}
	row, errs := rowFromCells(cells)
	assert.Empty(t, errs)
	assert.Equal(t, "Beyaz Peynir", row.Name)
	assert.Equal(t, "kg", row.UnitType)
	require.NotNil(t, row.InitialQuantity)
	assert.InDelta(t, 50, *row.InitialQuantity, 1e-9)
	require.NotNil(t, row.PriceFarmShop)
	assert.InDelta(t, 105, *row.PriceFarmShop, 1e-9)
	assert.Equal(t, "Açıklama", row.Description)
}

func TestRowFromCellsShortRow(t *testing.T) {
	// Eksik hücreler boş sayılır, panik olmaz
	row, errs := rowFromCells([]string{"Kaşar"})
	assert.Empty(t, errs)
	assert.Equal(t, "Kaşar", row.Name)
	assert.Nil(t, row.PriceCash)
}

func TestRowFromCellsBadNumber(t *testing.T) {
	cells := []string{
		"Kaşar", "Süt Ürünleri", "kg", "", "", "elli",
		"100", "110", "85", "95", "90", "99", "105", "",
	}
	row, errs := rowFromCells(cells)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "başlangıç miktarı")
	assert.Nil(t, row.InitialQuantity)
}

func TestLooksLikeHeader(t *testing.T) {
	assert.True(t, looksLikeHeader([]string{"Ürün Adı", "Kategori"}))
	assert.True(t, looksLikeHeader([]string{"Name"}))
	assert.False(t, looksLikeHeader([]string{"Beyaz Peynir", "Süt Ürünleri"}))
	assert.False(t, looksLikeHeader(nil))
}
