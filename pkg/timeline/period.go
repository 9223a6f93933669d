// Package timeline turns (year, month) keys into an ordered monthly timeline
// and groups months into seasons and years.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Season is a meteorological season. The constants are in chronological order
// within a season-year: Winter of year Y starts in December of Y, after Fall.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

var seasonNames = [...]string{"Spring", "Summer", "Fall", "Winter"}

func (s Season) String() string {
	if s < Spring || s > Winter {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// firstMonth returns the calendar month a season starts in.
func (s Season) firstMonth() time.Month {
	switch s {
	case Spring:
		return time.March
	case Summer:
		return time.June
	case Fall:
		return time.September
	default:
		return time.December
	}
}

// ParseSeason parses a season name, case-insensitively. "Autumn" is accepted for Fall.
func ParseSeason(name string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spring":
		return Spring, nil
	case "summer":
		return Summer, nil
	case "fall", "autumn":
		return Fall, nil
	case "winter":
		return Winter, nil
	}
	return 0, fmt.Errorf("unknown season %q", name)
}

// SeasonOf returns the season a month belongs to and the year the season is
// reported under. December of year Y and January/February of year Y+1 all
// belong to the Winter reported under Y.
func SeasonOf(year, month int) (Season, int) {
	switch month {
	case 12:
		return Winter, year
	case 1, 2:
		return Winter, year - 1
	case 3, 4, 5:
		return Spring, year
	case 6, 7, 8:
		return Summer, year
	default:
		return Fall, year
	}
}

// Granularity identifies which kind of period a PeriodKey names.
type Granularity int

const (
	MonthPeriod Granularity = iota
	SeasonPeriod
	YearPeriod
)

// PeriodKey identifies a month, a season or a year.
type PeriodKey struct {
	Granularity Granularity
	Year        int
	Month       int    // MonthPeriod only
	Season      Season // SeasonPeriod only
}

// MonthKey returns the key of a single month.
func MonthKey(year, month int) PeriodKey {
	return PeriodKey{Granularity: MonthPeriod, Year: year, Month: month}
}

// SeasonKey returns the key of a season bucket.
func SeasonKey(year int, season Season) PeriodKey {
	return PeriodKey{Granularity: SeasonPeriod, Year: year, Season: season}
}

// YearKey returns the key of a calendar year.
func YearKey(year int) PeriodKey {
	return PeriodKey{Granularity: YearPeriod, Year: year}
}

// Start returns the first day of the first month covered by the period.
func (k PeriodKey) Start() time.Time {
	switch k.Granularity {
	case MonthPeriod:
		return time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, time.UTC)
	case SeasonPeriod:
		return time.Date(k.Year, k.Season.firstMonth(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(k.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Before reports whether k starts before o.
func (k PeriodKey) Before(o PeriodKey) bool {
	return k.Start().Before(o.Start())
}

func (k PeriodKey) String() string {
	switch k.Granularity {
	case MonthPeriod:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
	case SeasonPeriod:
		return fmt.Sprintf("%04d %s", k.Year, k.Season)
	default:
		return fmt.Sprintf("%04d", k.Year)
	}
}
