package domain

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{2500}, Summary{Count: 1, Mean: 2500, Min: 2500, Max: 2500}},
		{"population std", []float64{2, 4, 4, 4, 5, 5, 7, 9}, Summary{Count: 8, Mean: 5, StdDev: 2, Min: 2, Max: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if got.Count != tt.want.Count ||
				!FloatEquals(got.Mean, tt.want.Mean) ||
				!FloatEquals(got.StdDev, tt.want.StdDev) ||
				!FloatEquals(got.Min, tt.want.Min) ||
				!FloatEquals(got.Max, tt.want.Max) {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummary_Range(t *testing.T) {
	s := Summarize([]float64{2400, 2600, 2500})
	if !FloatEquals(s.Range(), 200) {
		t.Errorf("Range = %v, want 200", s.Range())
	}
	if !FloatEquals(s.RangePercent(), 8) {
		t.Errorf("RangePercent = %v, want 8", s.RangePercent())
	}
}

func TestTrapezoid(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2, 3}
	if got := Trapezoid(x, y); math.Abs(got-4.5) > 1e-12 {
		t.Errorf("Trapezoid = %v, want 4.5", got)
	}
	if got := Trapezoid(x[:1], y[:1]); got != 0 {
		t.Errorf("Trapezoid single point = %v, want 0", got)
	}
}
