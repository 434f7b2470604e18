package domain

import "math"

// Epsilon допуск сравнения вещественных чисел
const Epsilon = 1e-9

// FloatEquals сравнивает два float64 с учётом Epsilon
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// FloatLess a < b с учётом Epsilon
func FloatLess(a, b float64) bool {
	return a < b-Epsilon
}

// FloatGreater a > b с учётом Epsilon
func FloatGreater(a, b float64) bool {
	return a > b+Epsilon
}

func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// IsFinite не NaN и не ±Inf
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp ограничивает v отрезком [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Percent доля part от total в процентах; 0 при нулевом total
func Percent(part, total float64) float64 {
	if IsZero(total) {
		return 0
	}
	return part / total * 100
}
