package moisture

import (
	"math"
	"testing"

	"github.com/chrissnell/droughtindex/pkg/timeline"
)

func TestIndex(t *testing.T) {
	precip := []float64{10, 0, 5, math.NaN(), 8, -1}
	pet := []float64{7, 3, 10, 1, math.NaN(), 2}
	expected := []float64{0.3, 0, -1, math.NaN(), math.NaN(), 0}

	out := Index(precip, pet)
	for i, v := range out {
		if math.IsNaN(expected[i]) {
			if !math.IsNaN(v) {
				t.Errorf("position %d: expected missing, got %v", i, v)
			}
			continue
		}
		if math.Abs(v-expected[i]) > 1e-12 {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestIndexZeroPrecipitationNeverInfinite(t *testing.T) {
	out := Index([]float64{0, 0, 0}, []float64{0, 12, math.NaN()})
	for i, v := range out {
		if v != 0 {
			t.Errorf("position %d: expected exactly 0, got %v", i, v)
		}
	}
}

func seriesWith(t *testing.T, precip, temp []float64) *timeline.Series {
	t.Helper()
	records := make([]timeline.Record, len(precip))
	for i := range precip {
		records[i] = timeline.Record{
			Year:          2010 + i/12,
			Month:         i%12 + 1,
			Precipitation: precip[i],
			Temperature:   math.NaN(),
		}
		if temp != nil {
			records[i].Temperature = temp[i]
		}
	}
	s, err := timeline.NewSeries(records)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func TestDefaultEstimator(t *testing.T) {
	precip := []float64{10, 20, 30}

	noTemp := seriesWith(t, precip, nil)
	est := Default(noTemp)
	if est.Name() != "fraction" {
		t.Fatalf("expected fraction fallback, got %s", est.Name())
	}
	for i, v := range est.Estimate(noTemp) {
		if math.Abs(v-0.7*precip[i]) > 1e-12 {
			t.Errorf("position %d: expected %v, got %v", i, 0.7*precip[i], v)
		}
	}

	withTemp := seriesWith(t, precip, []float64{10, 15, 20})
	est = Default(withTemp)
	if est.Name() != "hargreaves" {
		t.Fatalf("expected hargreaves, got %s", est.Name())
	}
	pet := est.Estimate(withTemp)
	if math.Abs(pet[0]-0.0023*0.408*10*50) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.0023*0.408*10*50, pet[0])
	}
}

func TestFractionFallbackIndexIsConstant(t *testing.T) {
	s := seriesWith(t, []float64{12, 0, 40}, nil)
	out := Index(s.Precipitation(), Default(s).Estimate(s))
	expected := []float64{0.3, 0, 0.3}
	for i, v := range out {
		if math.Abs(v-expected[i]) > 1e-12 {
			t.Errorf("position %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestThornthwaite(t *testing.T) {
	temps := []float64{-5, -2, 3, 8, 13, 18, 21, 20, 15, 9, 3, -3}
	precip := make([]float64, len(temps))
	for i := range precip {
		precip[i] = 50
	}
	s := seriesWith(t, precip, temps)

	pet := Thornthwaite{Latitude: 45}.Estimate(s)
	for i, v := range pet {
		if temps[i] <= 0 {
			if v != 0 {
				t.Errorf("month %d below freezing: expected 0, got %v", i+1, v)
			}
			continue
		}
		if v <= 0 || math.IsNaN(v) {
			t.Errorf("month %d: expected positive PET, got %v", i+1, v)
		}
	}

	// July is the warmest and longest month.
	for i, v := range pet {
		if i != 6 && v > pet[6] {
			t.Errorf("month %d PET %v exceeds July's %v", i+1, v, pet[6])
		}
	}
}

func TestNewEstimator(t *testing.T) {
	tests := []struct {
		method   string
		expected string
		wantErr  bool
	}{
		{"fraction", "fraction", false},
		{"Hargreaves", "hargreaves", false},
		{"thornthwaite", "thornthwaite", false},
		{"penman", "", true},
	}

	for _, tt := range tests {
		est, err := NewEstimator(tt.method, 0, 40)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.method)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.method, err)
		}
		if est.Name() != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.method, tt.expected, est.Name())
		}
	}

	est, err := NewEstimator("", 0, 0)
	if err != nil || est != nil {
		t.Errorf("empty method should return (nil, nil), got (%v, %v)", est, err)
	}
}
