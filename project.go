package pcg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"pcg/internal/dn"
)

// Project matches every point of source against its nearest point in
// target under Euclidean distance. It returns a point set matched with
// matched.At(i) a copy of the target point closest to source.At(i),
// and distances with the corresponding Euclidean distances.
//
// When several target points are exactly equidistant from a source
// point the lowest target index wins. Project is pure: identical
// inputs produce bit-identical outputs. NaN coordinates propagate
// into NaN distances rather than failing.
//
// Project returns ErrDimensionMismatch if the sets disagree on point
// dimension, and ErrEmptyTarget if source has points but target has
// none. An empty source yields empty outputs and a nil error.
func Project(source, target PointSet) (matched PointSet, distances []float64, err error) {
	if source.Len() == 0 {
		return PointSet{dim: source.dim}, []float64{}, nil
	}
	if target.Len() == 0 {
		return PointSet{}, nil, ErrEmptyTarget
	}
	if source.dim != target.dim {
		return PointSet{}, nil, ErrDimensionMismatch
	}
	dim := source.dim
	n := source.Len()
	matched = PointSet{data: make([]float64, n*dim), dim: dim}
	distances = make([]float64, n)
	for i := 0; i < n; i++ {
		j, d2 := dn.NearestTo(source.At(i), target.data, dim)
		copy(matched.data[i*dim:(i+1)*dim], target.At(j))
		distances[i] = math.Sqrt(d2)
	}
	return matched, distances, nil
}

// Project3 is Project specialized to 3-dimensional point slices. Same
// semantics, including the lowest-index tie break.
func Project3(source, target []r3.Vec) (matched []r3.Vec, distances []float64, err error) {
	if len(source) == 0 {
		return []r3.Vec{}, []float64{}, nil
	}
	if len(target) == 0 {
		return nil, nil, ErrEmptyTarget
	}
	matched = make([]r3.Vec, len(source))
	distances = make([]float64, len(source))
	for i, p := range source {
		best := 0
		min := r3.Norm2(r3.Sub(p, target[0]))
		for j := 1; j < len(target); j++ {
			d2 := r3.Norm2(r3.Sub(p, target[j]))
			if d2 < min {
				best, min = j, d2
			}
		}
		matched[i] = target[best]
		distances[i] = math.Sqrt(min)
	}
	return matched, distances, nil
}
