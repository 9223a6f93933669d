package solar

import (
	"math"
	"testing"
	"time"
)

func TestDaylightHours(t *testing.T) {
	tests := []struct {
		name      string
		dayOfYear int
		latitude  float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "Equator at equinox (March 20, day 79)",
			dayOfYear: 79,
			latitude:  0.0,
			expected:  12.0,
			tolerance: 0.1,
		},
		{
			name:      "Seattle WA summer solstice (June 21, day 172)",
			dayOfYear: 172,
			latitude:  47.6,
			expected:  15.9,
			tolerance: 0.5,
		},
		{
			name:      "Seattle WA winter solstice (Dec 21, day 355)",
			dayOfYear: 355,
			latitude:  47.6,
			expected:  8.4,
			tolerance: 0.5,
		},
		{
			name:      "Arctic circle summer (polar day)",
			dayOfYear: 172,
			latitude:  70.0,
			expected:  24,
			tolerance: 0,
		},
		{
			name:      "Arctic circle winter (polar night)",
			dayOfYear: 355,
			latitude:  70.0,
			expected:  0,
			tolerance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaylightHours(tt.dayOfYear, tt.latitude)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("DaylightHours(%d, %.1f) = %.2f, expected %.2f ± %.2f",
					tt.dayOfYear, tt.latitude, got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestHemispheresMirror(t *testing.T) {
	north := MonthDaylightHours(2020, time.June, 40)
	south := MonthDaylightHours(2020, time.June, -40)
	if math.Abs(north+south-24) > 0.01 {
		t.Errorf("expected mirrored day lengths to sum to 24h, got %.2f + %.2f", north, south)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2021, time.April, 30},
		{2021, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.expected {
			t.Errorf("DaysIn(%d, %s) = %d, expected %d", tt.year, tt.month, got, tt.expected)
		}
	}
}
