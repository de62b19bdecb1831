package unit

import (
	"math"
	"testing"

	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name     string
		qty      float64
		unitType models.UnitType
		factor   *float64
		want     float64
		wantErr  error
	}{
		{name: "weight identity", qty: 12.5, unitType: models.UnitWeight, want: 12.5},
		{name: "pack multiplies by weight per pack", qty: 3, unitType: models.UnitPack, factor: ptr(5), want: 15},
		{name: "pack fractional", qty: 2.5, unitType: models.UnitPack, factor: ptr(4.4), want: 11},
		{name: "gram count 250gr", qty: 4, unitType: models.UnitGramCount, factor: ptr(250), want: 1},
		{name: "gram count rounds half away from zero", qty: 1, unitType: models.UnitGramCount, factor: ptr(125), want: 0.13},
		{name: "pack missing factor", qty: 3, unitType: models.UnitPack, wantErr: ErrInvalidConversionFactor},
		{name: "pack zero factor", qty: 3, unitType: models.UnitPack, factor: ptr(0), wantErr: ErrInvalidConversionFactor},
		{name: "gram count negative factor", qty: 3, unitType: models.UnitGramCount, factor: ptr(-10), wantErr: ErrInvalidConversionFactor},
		{name: "unknown unit type", qty: 3, unitType: models.UnitType("bilinmeyen"), wantErr: ErrInvalidConversionFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCanonical(tt.qty, tt.unitType, tt.factor)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Geçerli pozitif katsayı ile toDisplay(toCanonical(x)) == x (0.01 tolerans)
	cases := []struct {
		unitType models.UnitType
		factor   *float64
		qty      float64
	}{
		{models.UnitWeight, nil, 7.25},
		{models.UnitPack, ptr(5), 13},
		{models.UnitPack, ptr(2.5), 6.4},
		{models.UnitGramCount, ptr(500), 9},
		{models.UnitGramCount, ptr(1000), 3.5},
	}

	for _, tc := range cases {
		canonical, err := ToCanonical(tc.qty, tc.unitType, tc.factor)
		require.NoError(t, err)

		display, err := ToDisplay(canonical, tc.unitType, tc.factor)
		require.NoError(t, err)

		if math.Abs(display-tc.qty) > 0.01 {
			t.Errorf("round-trip %v qty=%v: got %v", tc.unitType, tc.qty, display)
		}
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 10.01, Round2(10.005))
	assert.Equal(t, 2.0, Round2(1.999999999))
}
