package inventory

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductWeight(t *testing.T) {
	row := validRow("Beyaz Peynir")
	row.InitialQuantity = ptr(50)
	row.Description = " Salamura "

	p, err := buildProduct(row)
	require.NoError(t, err)
	assert.Equal(t, models.UnitWeight, p.UnitType)
	assert.InDelta(t, 50, p.Quantity, 1e-9)
	assert.Equal(t, "Salamura", p.Description)
	assert.InDelta(t, 100, p.PriceCash, 1e-9)
	assert.InDelta(t, 105, p.PriceFarmShop, 1e-9)
}

func TestBuildProductPackConvertsToKg(t *testing.T) {
	row := validRow("Kaşar Koli")
	row.UnitType = "koli"
	row.WeightPerPack = ptr(8.5)
	row.InitialQuantity = ptr(2) // 2 koli

	p, err := buildProduct(row)
	require.NoError(t, err)
	assert.Equal(t, models.UnitPack, p.UnitType)
	assert.InDelta(t, 17, p.Quantity, 1e-9)
}

func TestBuildProductGramCountConvertsToKg(t *testing.T) {
	row := validRow("Tereyağı 250gr")
	row.UnitType = "gram"
	row.GramsPerUnit = ptr(250)
	row.InitialQuantity = ptr(40) // 40 adet x 250gr = 10 kg

	p, err := buildProduct(row)
	require.NoError(t, err)
	assert.Equal(t, models.UnitGramCount, p.UnitType)
	assert.InDelta(t, 10, p.Quantity, 1e-9)
}

func TestBuildProductZeroInitialQuantity(t *testing.T) {
	row := validRow("Beyaz Peynir")

	p, err := buildProduct(row)
	require.NoError(t, err)
	assert.Zero(t, p.Quantity)
}
