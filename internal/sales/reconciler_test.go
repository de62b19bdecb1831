package sales

import (
	"math"
	"testing"

	"dagitim-backend/internal/ledger"
	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		collected float64
		want      models.PaymentStatus
	}{
		{"hiç tahsilat yok", 1000, 0, models.PaymentStatusUnpaid},
		{"kısmi tahsilat", 1000, 500, models.PaymentStatusPartial},
		{"tam tahsilat", 1000, 1000, models.PaymentStatusFullyPaid},
		{"fazla tahsilat", 1000, 1100, models.PaymentStatusFullyPaid},
		{"yuvarlama toleransı", 1000, 999.995, models.PaymentStatusFullyPaid},
		{"tolerans dışı eksik", 1000, 999.98, models.PaymentStatusPartial},
		{"sıfır toplam sıfır tahsilat", 0, 0, models.PaymentStatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(tt.total, tt.collected))
		})
	}
}

func TestAllocateCollectedProportional(t *testing.T) {
	lineTotals := []float64{600, 300, 100}
	allocated := AllocateCollected(lineTotals, 500)

	require.Len(t, allocated, 3)
	assert.Equal(t, 300.0, allocated[0])
	assert.Equal(t, 150.0, allocated[1])
	assert.Equal(t, 50.0, allocated[2])
}

func TestAllocateCollectedSumsToCollected(t *testing.T) {
	// Dağıtılan tutarların toplamı tahsilata (satır sayısı x 0.01 tolerans
	// içinde) eşit olmalı
	cases := []struct {
		totals    []float64
		collected float64
	}{
		{[]float64{100, 200, 300}, 450},
		{[]float64{33.33, 33.33, 33.34}, 50},
		{[]float64{0.01, 0.02, 999.97}, 500},
		{[]float64{123.45}, 123.45},
	}

	for _, tc := range cases {
		allocated := AllocateCollected(tc.totals, tc.collected)
		sum := 0.0
		for _, a := range allocated {
			sum += a
		}
		tolerance := float64(len(tc.totals)) * 0.01
		if math.Abs(sum-tc.collected) > tolerance {
			t.Errorf("totals=%v collected=%v: dağıtım toplamı %v", tc.totals, tc.collected, sum)
		}
	}
}

func TestAllocateCollectedZeroTotal(t *testing.T) {
	allocated := AllocateCollected([]float64{0, 0}, 100)
	assert.Equal(t, []float64{0, 0}, allocated)
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 250.0, LineTotal(2.5, 100))
	assert.Equal(t, 33.33, LineTotal(3, 11.11))
	assert.Equal(t, 0.3, LineTotal(0.1, 3))
}

func repItem(repID uint, assigned, sold, returned float64) *models.AssignmentItem {
	return &models.AssignmentItem{
		Assignment:       models.Assignment{SalesRepID: repID},
		AssignedQuantity: assigned,
		SoldQuantity:     sold,
		ReturnedQuantity: returned,
	}
}

func TestValidateLineOrder(t *testing.T) {
	item := repItem(7, 100, 20, 5) // kalan 75

	// Sahiplik her şeyden önce kontrol edilir
	err := ValidateLine(item, 9, -5, 0)
	assert.ErrorIs(t, err, ErrUnauthorizedAssignment)

	err = ValidateLine(item, 7, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = ValidateLine(item, 7, 75.01, 100)
	assert.ErrorIs(t, err, ledger.ErrInsufficientRemaining)

	err = ValidateLine(item, 7, 75, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	assert.NoError(t, ValidateLine(item, 7, 75, 100))
}

func TestValidateLineSellsDisplayedRemaining(t *testing.T) {
	// Ondalık sayaçlarda biriken float sapması (ör. 2 - 0.1 - 0.1 =
	// 1.7999...98) plasiyerin ekranda gördüğü kalanın tamamını satmasını
	// engellememeli
	cases := []struct{ assigned, sold, returned float64 }{
		{2, 0.1, 0.1},
		{1, 0.3, 0.3},
		{3.3, 1.1, 1.1},
		{0.3, 0.1, 0.1},
		{10.5, 3.2, 0.1},
	}

	for _, tc := range cases {
		item := repItem(1, tc.assigned, tc.sold, tc.returned)
		err := ValidateLine(item, 1, item.Remaining(), 10)
		assert.NoError(t, err, "assigned=%v sold=%v returned=%v kalan=%v",
			tc.assigned, tc.sold, tc.returned, item.Remaining())
	}
}
