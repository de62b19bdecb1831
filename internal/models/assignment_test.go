package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentItemRemainingRounded(t *testing.T) {
	tests := []struct {
		name                     string
		assigned, sold, returned float64
		want                     float64
	}{
		{"tam sayılar", 100, 20, 5, 75},
		{"ondalık sapma", 2, 0.1, 0.1, 1.8}, // ham fark 1.7999...98
		{"üç ondalıklı sayaçlar", 3.3, 1.1, 1.1, 1.1},
		{"tükenmiş kalem", 0.3, 0.2, 0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := AssignmentItem{
				AssignedQuantity: tt.assigned,
				SoldQuantity:     tt.sold,
				ReturnedQuantity: tt.returned,
			}
			assert.Equal(t, tt.want, item.Remaining())
		})
	}
}
