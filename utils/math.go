package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns num evenly spaced samples over [start, stop]. When
// endpoint is false the interval is half-open, matching the angle-sweep
// convention for a full circle of wind directions.
func Linspace(start, stop float64, num int, endpoint bool) (v []float64) {
	v = make([]float64, num)
	if num == 1 {
		v[0] = start
		return
	}
	div := float64(num)
	if endpoint {
		div = float64(num - 1)
	}
	step := (stop - start) / div
	for i := range v {
		v[i] = start + float64(i)*step
	}
	return
}

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func Norm2(v []float64) float64 {
	return math.Sqrt(floats.Dot(v, v))
}

// Near reports whether two floats agree within a small absolute tolerance.
func Near(a, b float64) bool {
	return math.Abs(a-b) < 1e-10
}
