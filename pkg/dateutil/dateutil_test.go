package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddMonths covers end-of-month clamping and year rollover in both directions
func TestAddMonths(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		months      int
		expected    time.Time
		description string
	}{
		{
			name:        "Simple",
			date:        Date(2025, 3, 15),
			months:      1,
			expected:    Date(2025, 4, 15),
			description: "Same day next month",
		},
		{
			name:        "Jan 31 plus one",
			date:        Date(2025, 1, 31),
			months:      1,
			expected:    Date(2025, 2, 28),
			description: "Clamps to end of February",
		},
		{
			name:        "Leap February",
			date:        Date(2024, 1, 31),
			months:      1,
			expected:    Date(2024, 2, 29),
			description: "Clamps to Feb 29 in leap years",
		},
		{
			name:        "Year rollover",
			date:        Date(2025, 11, 30),
			months:      3,
			expected:    Date(2026, 2, 28),
			description: "Crosses year boundary and clamps",
		},
		{
			name:        "Negative",
			date:        Date(2025, 1, 15),
			months:      -1,
			expected:    Date(2024, 12, 15),
			description: "Steps back into previous year",
		},
		{
			name:        "Negative whole years",
			date:        Date(2025, 1, 15),
			months:      -13,
			expected:    Date(2023, 12, 15),
			description: "Steps back more than a year",
		},
		{
			name:        "Thirty years",
			date:        Date(2025, 1, 1),
			months:      360,
			expected:    Date(2055, 1, 1),
			description: "Long horizon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.date, tt.months), tt.description)
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		expected int
	}{
		{"Same month", Date(2041, 1, 1), Date(2041, 1, 31), 0},
		{"Gap year", Date(2041, 1, 1), Date(2041, 12, 31), 11},
		{"Across years", Date(2024, 11, 30), Date(2025, 2, 1), 3},
		{"Backwards", Date(2025, 3, 1), Date(2025, 1, 1), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1, DaysBetween(Date(2040, 12, 31), Date(2041, 1, 1)))
	assert.Equal(t, 366, DaysBetween(Date(2024, 1, 1), Date(2025, 1, 1)))
	assert.Equal(t, -1, DaysBetween(Date(2041, 1, 1), Date(2040, 12, 31)))
}

func TestParseAndFormat(t *testing.T) {
	d, err := Parse("2041-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date(2041, 12, 31), d)
	assert.Equal(t, "2041-12-31", Format(d))

	_, err = Parse("31.12.2041")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	in := time.Date(2025, 6, 1, 17, 45, 3, 9, time.UTC)
	assert.Equal(t, Date(2025, 6, 1), Normalize(in))
}

func TestEarliestLatest(t *testing.T) {
	assert.Nil(t, Earliest())
	assert.Nil(t, Latest())

	a, b, c := Date(2042, 1, 1), Date(2041, 6, 1), Date(2045, 3, 1)
	require.NotNil(t, Earliest(a, b, c))
	assert.Equal(t, b, *Earliest(a, b, c))
	assert.Equal(t, c, *Latest(a, b, c))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 31, DaysInMonth(2025, time.December))
}
