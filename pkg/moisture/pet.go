package moisture

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chrissnell/droughtindex/pkg/solar"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// DefaultFraction is the share of precipitation used as PET when no
// temperature is available. This is a deliberate simplification: with it the
// moisture index is a constant 0.3 wherever it rains.
const DefaultFraction = 0.7

// Estimator produces a monthly PET series aligned with the input series.
type Estimator interface {
	Name() string
	Estimate(s *timeline.Series) []float64
}

// PrecipitationFraction estimates PET as a fixed fraction of precipitation.
type PrecipitationFraction struct {
	Fraction float64
}

func (f PrecipitationFraction) Name() string { return "fraction" }

func (f PrecipitationFraction) Estimate(s *timeline.Series) []float64 {
	precip := s.Precipitation()
	out := make([]float64, len(precip))
	for i, p := range precip {
		out[i] = f.Fraction * p
	}
	return out
}

// SimplifiedHargreaves is the temperature-only estimate
// 0.0023 * 0.408 * T * 50, with T the monthly mean temperature in °C.
type SimplifiedHargreaves struct{}

func (SimplifiedHargreaves) Name() string { return "hargreaves" }

func (SimplifiedHargreaves) Estimate(s *timeline.Series) []float64 {
	temps := s.Temperature()
	out := make([]float64, len(temps))
	for i, t := range temps {
		out[i] = 0.0023 * 0.408 * t * 50
	}
	return out
}

// Thornthwaite estimates monthly PET (mm) from mean temperature (°C) and day
// length at the station latitude. The heat index is computed per calendar year
// from the months that carry a temperature.
type Thornthwaite struct {
	Latitude float64
}

func (Thornthwaite) Name() string { return "thornthwaite" }

func (th Thornthwaite) Estimate(s *timeline.Series) []float64 {
	records := s.Records()

	heat := make(map[int]float64)
	for _, r := range records {
		if !math.IsNaN(r.Temperature) && r.Temperature > 0 {
			heat[r.Year] += math.Pow(r.Temperature/5, 1.514)
		}
	}

	out := make([]float64, len(records))
	for i, r := range records {
		t := r.Temperature
		if math.IsNaN(t) {
			out[i] = math.NaN()
			continue
		}
		hi := heat[r.Year]
		if t <= 0 || hi == 0 {
			continue
		}

		var unadjusted float64
		if t >= 26.5 {
			unadjusted = -415.85 + 32.24*t - 0.43*t*t
		} else {
			a := 6.75e-7*hi*hi*hi - 7.71e-5*hi*hi + 1.792e-2*hi + 0.49239
			unadjusted = 16 * math.Pow(10*t/hi, a)
		}

		month := time.Month(r.Month)
		daylight := solar.MonthDaylightHours(r.Year, month, th.Latitude)
		days := float64(solar.DaysIn(r.Year, month))
		out[i] = unadjusted * (daylight / 12) * (days / 30)
	}
	return out
}

// Default picks the temperature-driven estimator when the series carries
// temperature and the precipitation fraction otherwise.
func Default(s *timeline.Series) Estimator {
	if s.HasTemperature() {
		return SimplifiedHargreaves{}
	}
	return PrecipitationFraction{Fraction: DefaultFraction}
}

// NewEstimator builds an estimator by name. An empty name returns nil so the
// caller can fall back to Default.
func NewEstimator(method string, fraction, latitude float64) (Estimator, error) {
	switch strings.ToLower(method) {
	case "":
		return nil, nil
	case "fraction":
		if fraction <= 0 {
			fraction = DefaultFraction
		}
		return PrecipitationFraction{Fraction: fraction}, nil
	case "hargreaves":
		return SimplifiedHargreaves{}, nil
	case "thornthwaite":
		if latitude < -90 || latitude > 90 {
			return nil, fmt.Errorf("latitude %.2f out of range", latitude)
		}
		return Thornthwaite{Latitude: latitude}, nil
	default:
		return nil, fmt.Errorf("unknown PET method %q", method)
	}
}
