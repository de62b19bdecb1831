package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupSumsByReceipt(t *testing.T) {
	lines := []Line{
		{ReceiptNo: "A", CustomerName: "Otel Yıldız", Date: day(20), Quantity: 10, Amount: 1000, Collected: 500},
		{ReceiptNo: "A", CustomerName: "Otel Yıldız", Date: day(20), Quantity: 5, Amount: 400, Collected: 200},
		{ReceiptNo: "B", CustomerName: "Bayi Kaya", Date: day(19), Quantity: 2, Amount: 300, Collected: 300},
	}

	groups := Group(lines)
	require.Len(t, groups, 2)

	assert.Equal(t, "A", groups[0].ReceiptNo)
	assert.Equal(t, 15.0, groups[0].TotalQuantity)
	assert.Equal(t, 1400.0, groups[0].TotalAmount)
	assert.Equal(t, 700.0, groups[0].Collected)
	assert.Equal(t, 2, groups[0].LineCount)
	assert.Equal(t, "Otel Yıldız", groups[0].CustomerName)

	assert.Equal(t, "B", groups[1].ReceiptNo)
	assert.Equal(t, 1, groups[1].LineCount)
}

func TestGroupIsPartition(t *testing.T) {
	lines := []Line{
		{ReceiptNo: "A", Date: day(20), Amount: 100},
		{ReceiptNo: "", Date: day(19), Amount: 50},
		{ReceiptNo: "A", Date: day(20), Amount: 25},
		{ReceiptNo: "", Date: day(18), Amount: 75},
		{ReceiptNo: "C", Date: day(17), Amount: 10},
	}

	groups := Group(lines)

	lineTotal := 0.0
	for _, l := range lines {
		lineTotal += l.Amount
	}
	groupTotal := 0.0
	lineCount := 0
	for _, g := range groups {
		groupTotal += g.TotalAmount
		lineCount += g.LineCount
	}

	// Her satır tam olarak bir grupta
	assert.Equal(t, len(lines), lineCount)
	assert.InDelta(t, lineTotal, groupTotal, 0.001)
}

func TestGroupEmptyReceiptNoIsSingleton(t *testing.T) {
	lines := []Line{
		{ReceiptNo: "", Date: day(20), Amount: 100},
		{ReceiptNo: "", Date: day(20), Amount: 200},
	}

	groups := Group(lines)
	// Boş fiş numaraları birleştirilmez
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].LineCount)
	assert.Equal(t, 1, groups[1].LineCount)
}

func TestGroupSortedByDateDescending(t *testing.T) {
	lines := []Line{
		{ReceiptNo: "eski", Date: day(1), Amount: 1},
		{ReceiptNo: "yeni", Date: day(28), Amount: 1},
		{ReceiptNo: "orta", Date: day(15), Amount: 1},
	}

	groups := Group(lines)
	require.Len(t, groups, 3)
	assert.Equal(t, "yeni", groups[0].ReceiptNo)
	assert.Equal(t, "orta", groups[1].ReceiptNo)
	assert.Equal(t, "eski", groups[2].ReceiptNo)
}
