package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		offset int
		want   string
	}{
		{"leap day backwards", "2024-03-01", -1, "2024-02-29"},
		{"non-leap backwards", "2023-03-01", -1, "2023-02-28"},
		{"year boundary", "2024-12-31", 1, "2025-01-01"},
		{"zero", "2024-06-15", 0, "2024-06-15"},
		{"multi month", "2024-01-31", 30, "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shift(tt.date, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftRejectsBadDate(t *testing.T) {
	_, err := Shift("2024-13-01", 1)
	assert.Error(t, err)

	_, err = Shift("01/03/2024", 1)
	assert.Error(t, err)
}

func TestMondayOf(t *testing.T) {
	got, err := MondayOf("2024-03-03") // Sunday
	require.NoError(t, err)
	assert.Equal(t, "2024-02-26", got)

	got, err = MondayOf("2024-02-26")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-26", got)
}

func TestRange(t *testing.T) {
	got, err := Range("2024-02-27", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, got)

	_, err = Range("2024-03-02", "2024-03-01")
	assert.Error(t, err)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
}
