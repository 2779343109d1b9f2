// Package pcg provides geometric primitives and training utilities for
// 2D-to-3D point cloud reconstruction. The root package implements
// point sets and nearest-point projection between them; subpackages
// cover datasets, tensors, training and run summaries.
package pcg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrEmptyTarget is returned by projection when the target point
	// set has no points to match against.
	ErrEmptyTarget = errors.New("pcg: empty target point set")
	// ErrDimensionMismatch is returned when two point sets do not share
	// the same point dimensionality.
	ErrDimensionMismatch = errors.New("pcg: point dimension mismatch")
)

// PointSet is an ordered collection of fixed-dimension points stored as
// a flat, row-major float64 slice. The zero value is an empty set of
// dimension zero and is only useful as a source of no points.
type PointSet struct {
	data []float64
	dim  int
}

// NewPointSet creates a point set of n points of dimension dim backed
// by data, which must have length n*dim. The slice is used directly,
// not copied.
func NewPointSet(data []float64, dim int) (PointSet, error) {
	if dim <= 0 {
		return PointSet{}, fmt.Errorf("pcg: non-positive point dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return PointSet{}, fmt.Errorf("pcg: data length %d not divisible by dimension %d", len(data), dim)
	}
	return PointSet{data: data, dim: dim}, nil
}

// PointSetFromVecs creates a 3-dimensional point set from v.
func PointSetFromVecs(v []r3.Vec) PointSet {
	data := make([]float64, 3*len(v))
	for i, p := range v {
		data[3*i] = p.X
		data[3*i+1] = p.Y
		data[3*i+2] = p.Z
	}
	return PointSet{data: data, dim: 3}
}

// Len returns the number of points in the set.
func (s PointSet) Len() int {
	if s.dim == 0 {
		return 0
	}
	return len(s.data) / s.dim
}

// Dim returns the dimensionality of the points in the set.
func (s PointSet) Dim() int { return s.dim }

// At returns the i-th point as a view into the set's backing data.
// Callers must not grow the returned slice.
func (s PointSet) At(i int) []float64 {
	return s.data[i*s.dim : (i+1)*s.dim : (i+1)*s.dim]
}

// AtVec returns the i-th point as an r3.Vec. Panics if the set is not
// 3-dimensional.
func (s PointSet) AtVec(i int) r3.Vec {
	if s.dim != 3 {
		panic("pcg: AtVec on point set of dimension != 3")
	}
	return r3.Vec{X: s.data[3*i], Y: s.data[3*i+1], Z: s.data[3*i+2]}
}

// Vecs returns a copy of the set as a slice of r3.Vec. Panics if the
// set is not 3-dimensional.
func (s PointSet) Vecs() []r3.Vec {
	n := s.Len()
	v := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		v[i] = s.AtVec(i)
	}
	return v
}
