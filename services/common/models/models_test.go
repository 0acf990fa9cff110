package models

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1718000000000)
	id := NewID("order", now)
	assert.Regexp(t, regexp.MustCompile(`^order-1718000000000-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewID("order", now))
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("x", 3600)))
	assert.Equal(t, "2026-03-04T04:06:07.008Z", ts)
}

func TestStockOperation_Apply(t *testing.T) {
	cases := []struct {
		op           StockOperation
		current, qty int
		want         int
	}{
		{StockSet, 7, 3, 3},
		{StockAdd, 7, 3, 10},
		{StockSubtract, 7, 3, 4},
		{StockSubtract, 2, 5, 0},
	}
	for _, tc := range cases {
		got, err := tc.op.Apply(tc.current, tc.qty)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %d %d", tc.op, tc.current, tc.qty)
	}
}

func TestStockOperation_ApplyRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name         string
		op           StockOperation
		current, qty int
	}{
		{"add near int limit", StockAdd, 5, math.MaxInt64},
		{"add past max level", StockAdd, MaxStockLevel, 1},
		{"set above max level", StockSet, 0, MaxStockLevel + 1},
		{"negative quantity", StockSubtract, 5, -3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.op.Apply(tc.current, tc.qty)
			assert.ErrorIs(t, err, ErrStockLimit)
		})
	}

	got, err := StockAdd.Apply(MaxStockLevel-1, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxStockLevel, got)
}

func TestParseStockOperation(t *testing.T) {
	op, err := ParseStockOperation("")
	require.NoError(t, err)
	assert.Equal(t, StockSet, op)

	op, err = ParseStockOperation("subtract")
	require.NoError(t, err)
	assert.Equal(t, StockSubtract, op)

	_, err = ParseStockOperation("multiply")
	assert.Error(t, err)
}
