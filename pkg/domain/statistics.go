package domain

import "math"

// Summary сводная статистика выборки
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // генеральная (делитель n)
	Min    float64
	Max    float64
}

// Range разброс Max - Min
func (s Summary) Range() float64 {
	return s.Max - s.Min
}

// RangePercent разброс в процентах от среднего
func (s Summary) RangePercent() float64 {
	return Percent(s.Range(), s.Mean)
}

// Summarize считает статистику; для пустой выборки нулевой Summary
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / float64(len(values)))
	}

	return s
}

// Trapezoid интеграл y(x) методом трапеций
func Trapezoid(x, y []float64) float64 {
	n := min(len(x), len(y))
	var area float64
	for i := 1; i < n; i++ {
		area += (y[i] + y[i-1]) / 2 * (x[i] - x[i-1])
	}
	return area
}
