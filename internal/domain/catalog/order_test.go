package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrdersType(t *testing.T) {
	tests := []struct {
		raw  string
		want OrdersType
	}{
		{"", OrdersTypeAll},
		{"0", OrdersTypeUrgent},
		{"1", OrdersTypeToday},
		{"2", OrdersTypeOther},
	}
	for _, tt := range tests {
		got, err := ParseOrdersType(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseOrdersType("3")
	assert.Equal(t, ErrUnknownOrdersType, err)
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, loc)

	start, end := DayBounds(now)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, loc), end)
}

func TestOrdersType_Matches(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	today := now.Add(-time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		express bool
		created time.Time
		want    OrdersType
	}{
		{"express today", true, today, OrdersTypeUrgent},
		{"express yesterday", true, yesterday, OrdersTypeUrgent},
		{"plain today", false, today, OrdersTypeToday},
		{"plain yesterday", false, yesterday, OrdersTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, tab := range []OrdersType{OrdersTypeUrgent, OrdersTypeToday, OrdersTypeOther} {
				assert.Equal(t, tab == tt.want, tab.Matches(tt.express, tt.created, now), "tab %d", tab)
			}
			assert.True(t, OrdersTypeAll.Matches(tt.express, tt.created, now))
		})
	}
}

func TestParseOrderSort(t *testing.T) {
	got, err := ParseOrderSort("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOrderSort, got)

	got, err = ParseOrderSort("-brand")
	require.NoError(t, err)
	assert.Equal(t, OrderSort{Key: OrderSortBrand, Descending: true}, got)

	_, err = ParseOrderSort("price")
	assert.Equal(t, ErrUnknownSortKey, err)
}
