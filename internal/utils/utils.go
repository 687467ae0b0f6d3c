package utils

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

func MaxSlice[T Number](s []T) (m T) {
	for i := range s {
		if i == 0 || s[i] > m {
			m = s[i]
		}
	}
	return
}

// Moments accumulates the count, sum and sum of squares of a sample.
type Moments struct {
	N     int
	Sum   float64
	SumSq float64
}

func (m *Moments) Add(v float64) {
	m.N++
	m.Sum += v
	m.SumSq += v * v
}

// Merge combines moments of disjoint samples in the given order.
func Merge(parts []Moments) (total Moments) {
	for i := range parts {
		total.N += parts[i].N
		total.Sum += parts[i].Sum
		total.SumSq += parts[i].SumSq
	}
	return
}

// MeanAndVariance returns the mean and the (optionally unbiased) variance.
func (m Moments) MeanAndVariance(unbiased bool) (mean, variance float64) {
	if m.N == 0 {
		return 0, 0
	}
	mean = m.Sum / float64(m.N)
	variance = m.SumSq/float64(m.N) - mean*mean
	if variance < 0 {
		variance = 0
	}
	if unbiased && m.N > 1 {
		variance *= float64(m.N) / float64(m.N-1)
	}
	return
}

// StdErrorOfMean is sqrt(variance/N).
func (m Moments) StdErrorOfMean() float64 {
	if m.N < 2 {
		return 0
	}
	_, variance := m.MeanAndVariance(true)
	return math.Sqrt(variance / float64(m.N))
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}
}

func Intersect(a, b []string) *string {
	for i := range a {
		if slices.Contains(b, a[i]) {
			return &a[i]
		}
	}
	return nil
}
