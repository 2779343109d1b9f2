package pcg

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// kd-tree accelerated projection for 3D point sets.

var (
	_ kdtree.Interface  = kdPoints{}
	_ kdtree.Comparable = kdPoint{}
)

// ProjectKD is Project3 backed by a k-d tree over the target set.
// Useful when both sets are large enough that the VsN*VtN scan of
// Project3 dominates. Matched points and distances agree with
// Project3 except when several target points are exactly equidistant
// from a source point: the tree reports whichever it visits first,
// not necessarily the lowest index. Use Project3 when the tie policy
// matters.
func ProjectKD(source, target []r3.Vec) (matched []r3.Vec, distances []float64, err error) {
	if len(source) == 0 {
		return []r3.Vec{}, []float64{}, nil
	}
	if len(target) == 0 {
		return nil, nil, ErrEmptyTarget
	}
	pts := make(kdPoints, len(target))
	for i, p := range target {
		pts[i] = kdPoint{v: p}
	}
	tree := kdtree.New(pts, false)
	matched = make([]r3.Vec, len(source))
	distances = make([]float64, len(source))
	for i, p := range source {
		got, d := tree.Nearest(kdPoint{v: p})
		matched[i] = got.(kdPoint).v
		distances[i] = math.Sqrt(d)
	}
	return matched, distances, nil
}

type kdPoint struct {
	v r3.Vec
}

func (a kdPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	q := b.(kdPoint)
	switch d {
	case 0:
		return a.v.X - q.v.X
	case 1:
		return a.v.Y - q.v.Y
	case 2:
		return a.v.Z - q.v.Z
	}
	panic("unreachable")
}

func (a kdPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance to b.
func (a kdPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.v, b.(kdPoint).v))
}

type kdPoints []kdPoint

func (k kdPoints) Index(i int) kdtree.Comparable { return k[i] }

func (k kdPoints) Len() int { return len(k) }

// Pivot partitions the list about the median of the dimension specified.
func (k kdPoints) Pivot(d kdtree.Dim) int {
	p := kdPointPlane{dim: int(d), points: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdPoints) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

type kdPointPlane struct {
	dim    int
	points kdPoints
}

func (p kdPointPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], kdtree.Dim(p.dim)) < 0
}

func (p kdPointPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p kdPointPlane) Len() int { return len(p.points) }

func (p kdPointPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPointPlane{dim: p.dim, points: p.points[start:end]}
}
