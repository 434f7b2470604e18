package domain

import (
	"math"
	"testing"
)

func TestFloatComparisons(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"equal within epsilon", FloatEquals(1.0, 1.0+Epsilon/2), true},
		{"not equal", FloatEquals(1.0, 1.001), false},
		{"less", FloatLess(1.0, 2.0), true},
		{"less within epsilon", FloatLess(1.0, 1.0+Epsilon/2), false},
		{"greater", FloatGreater(2.0, 1.0), true},
		{"zero", IsZero(Epsilon / 10), true},
		{"finite", IsFinite(3.5), true},
		{"nan not finite", IsFinite(math.NaN()), false},
		{"inf not finite", IsFinite(math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0.01, 0.99, 0.5},
		{0, 0.01, 0.99, 0.01},
		{1.2, 0.01, 0.99, 0.99},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(25, 200); !FloatEquals(got, 12.5) {
		t.Errorf("Percent = %v, want 12.5", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("Percent with zero total = %v, want 0", got)
	}
}
