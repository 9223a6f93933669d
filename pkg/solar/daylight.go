// Package solar provides the solar geometry needed for temperature-driven
// evapotranspiration estimates.
package solar

import (
	"math"
	"time"
)

// Declination returns the solar declination in radians for a day of the year.
func Declination(dayOfYear int) float64 {
	doy := float64(dayOfYear)
	innerAngle := (356.6 + 0.9856*doy) * (math.Pi / 180.0)
	outerAngle := (278.97 + 0.9856*doy + 1.9165*math.Sin(innerAngle)) * (math.Pi / 180.0)
	return math.Asin(0.39785 * math.Sin(outerAngle))
}

// DaylightHours returns the number of hours the sun is above the horizon on
// the given day at the given latitude. Polar day returns 24, polar night 0.
func DaylightHours(dayOfYear int, latitude float64) float64 {
	latRad := latitude * (math.Pi / 180.0)

	// At sunrise/sunset the zenith angle is 90°:
	// cos(H) = -tan(lat) * tan(declination)
	cosH := -math.Tan(latRad) * math.Tan(Declination(dayOfYear))
	if cosH < -1.0 {
		return 24
	}
	if cosH > 1.0 {
		return 0
	}

	hourAngleHours := math.Acos(cosH) * (180.0 / math.Pi) / 15.0 // 15 degrees per hour
	return 2 * hourAngleHours
}

// MonthDaylightHours returns the day length at the middle of a month.
func MonthDaylightHours(year int, month time.Month, latitude float64) float64 {
	mid := time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	return DaylightHours(mid.YearDay(), latitude)
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
