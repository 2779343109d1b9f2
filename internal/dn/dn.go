// Package dn implements dimension-agnostic helpers for point slices
// of the form []float64 with an associated dimension.
package dn

// SqDist returns the squared Euclidean distance between points a and b.
// The reduction runs over dimension indices in increasing order so that
// repeated calls with identical inputs accumulate rounding identically.
func SqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// NearestTo returns the index of the point in flat (dim-strided) data
// closest to p, with the distance squared. The scan runs left to right
// with a strict less-than test, so equidistant points resolve to the
// lowest index and NaN distances stick to the earliest candidate
// instead of being skipped. data must hold at least one point.
func NearestTo(p, data []float64, dim int) (int, float64) {
	idx, min := 0, SqDist(p, data[:dim])
	n := len(data) / dim
	for j := 1; j < n; j++ {
		d2 := SqDist(p, data[j*dim:(j+1)*dim])
		if d2 < min {
			idx, min = j, d2
		}
	}
	return idx, min
}
