package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersInvariant(t *testing.T) {
	c := Counters{Assigned: 100, Sold: 20, Returned: 5}
	assert.Equal(t, 75.0, c.Remaining())

	// Kabul edilen her çağrıdan sonra sold+returned <= assigned korunur
	ops := []struct {
		sale bool
		qty  float64
	}{
		{true, 10}, {false, 5}, {true, 30}, {false, 2.5}, {true, 27.5},
	}
	for _, op := range ops {
		var err error
		if op.sale {
			err = c.RecordSale(op.qty)
		} else {
			err = c.RecordReturn(op.qty)
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, c.Sold+c.Returned, c.Assigned)
		assert.GreaterOrEqual(t, c.Remaining(), 0.0)
	}
	assert.Equal(t, 0.0, c.Remaining())
}

func TestRecordSaleOversellRejected(t *testing.T) {
	c := Counters{Assigned: 100, Sold: 20, Returned: 5}
	before := c

	err := c.RecordSale(c.Remaining() + 0.01)
	require.ErrorIs(t, err, ErrInsufficientRemaining)
	// Sayaçlar değişmemiş olmalı
	assert.Equal(t, before, c)
}

func TestRecordSaleRejectsNonPositive(t *testing.T) {
	c := Counters{Assigned: 10}
	assert.ErrorIs(t, c.RecordSale(0), ErrInsufficientRemaining)
	assert.ErrorIs(t, c.RecordSale(-1), ErrInsufficientRemaining)
	assert.ErrorIs(t, c.RecordReturn(0), ErrInsufficientRemaining)
}

func TestExhaustThenSellFails(t *testing.T) {
	// assigned=100, sold=20, returned=5 -> remaining=75; 75 satılınca sıfırlanır
	c := Counters{Assigned: 100, Sold: 20, Returned: 5}
	require.NoError(t, c.RecordSale(75))
	assert.Equal(t, 0.0, c.Remaining())

	assert.ErrorIs(t, c.RecordSale(0.01), ErrInsufficientRemaining)
	assert.ErrorIs(t, c.RecordReturn(0.01), ErrInsufficientRemaining)
}

func TestAllocateGreedy(t *testing.T) {
	items := []Item{
		{ID: 1, Counters: Counters{Assigned: 10, Sold: 8}},  // kalan 2
		{ID: 2, Counters: Counters{Assigned: 50, Sold: 10}}, // kalan 40
		{ID: 3, Counters: Counters{Assigned: 20}},           // kalan 20
	}

	allocs, err := Allocate(items, 50)
	require.NoError(t, err)

	// En çok kalanı olan kalemden başlar: 40 + 10
	require.Len(t, allocs, 2)
	assert.Equal(t, uint(2), allocs[0].ItemID)
	assert.Equal(t, 40.0, allocs[0].Quantity)
	assert.Equal(t, uint(3), allocs[1].ItemID)
	assert.Equal(t, 10.0, allocs[1].Quantity)
}

func TestAllocateInsufficientAggregate(t *testing.T) {
	items := []Item{
		{ID: 1, Counters: Counters{Assigned: 5}},
		{ID: 2, Counters: Counters{Assigned: 3, Sold: 1}},
	}

	allocs, err := Allocate(items, 7.01)
	require.ErrorIs(t, err, ErrInsufficientRemaining)
	assert.Nil(t, allocs)
}

func TestAllocateSkipsExhaustedItems(t *testing.T) {
	items := []Item{
		{ID: 1, Counters: Counters{Assigned: 10, Sold: 10}}, // kalan 0
		{ID: 2, Counters: Counters{Assigned: 6}},
	}

	allocs, err := Allocate(items, 6)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, uint(2), allocs[0].ItemID)
}
