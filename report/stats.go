// Package report summarises coefficient distributions and blob sizes and
// renders them as go-echarts HTML pages.
package report

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Stats summarises a sample.
type Stats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis_excess"`
}

type number interface {
	constraints.Integer | constraints.Float
}

// Floats converts any numeric sample to float64.
func Floats[T number](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// Summarize computes moments and quartiles. Std uses the n-1 estimator.
func Summarize[T number](xs []T) Stats {
	x := Floats(xs)
	n := len(x)
	if n == 0 {
		return Stats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	q1, median, q3 := quantileSorted(cp, 0.25), quantileSorted(cp, 0.5), quantileSorted(cp, 0.75)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	var std float64
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	var skew, kurt float64
	if m2 > 0 {
		m2n, m3n, m4n := m2/float64(n), m3/float64(n), m4/float64(n)
		skew = m3n / math.Pow(m2n, 1.5)
		kurt = m4n/m2n/m2n - 3
	}
	return Stats{
		Count: n, Mean: m, Std: std,
		Min: cp[0], Q1: q1, Median: median, Q3: q3, Max: cp[n-1], IQR: q3 - q1,
		Skewness: skew, Kurtosis: kurt,
	}
}

// quantileSorted interpolates linearly between order statistics.
func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l, r := int(math.Floor(pos)), int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}

// Bins picks a Freedman–Diaconis bin count clamped to [1, 200]. Integer
// samples never get more bins than distinct integers they span.
func Bins(x []float64) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	span := cp[n-1] - cp[0]
	if span == 0 {
		return 1
	}
	iqr := quantileSorted(cp, 0.75) - quantileSorted(cp, 0.25)
	k := 200
	if iqr > 0 {
		bw := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
		k = int(math.Ceil(span / bw))
	}
	if integral(cp) && k > int(span)+1 {
		k = int(span) + 1
	}
	return max(1, min(k, 200))
}

func integral(x []float64) bool {
	for _, v := range x {
		if v != math.Trunc(v) {
			return false
		}
	}
	return true
}

// Histogram splits [min, max] into nbins equal bins. The last bin is
// closed.
func Histogram(values []float64, nbins int) (edges []float64, counts []int) {
	if len(values) == 0 {
		return []float64{0, 1}, []int{0}
	}
	nbins = max(nbins, 1)
	minv, maxv := values[0], values[0]
	for _, v := range values {
		minv, maxv = min(minv, v), max(maxv, v)
	}
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := range edges {
		edges[i] = minv + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - minv) / width))
		counts[max(0, min(idx, nbins-1))]++
	}
	return edges, counts
}
