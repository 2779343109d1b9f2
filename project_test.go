package pcg_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"pcg"
)

const tol = 1e-12

func mustPointSet(t *testing.T, data []float64, dim int) pcg.PointSet {
	t.Helper()
	s, err := pcg.NewPointSet(data, dim)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestProjectNearest(t *testing.T) {
	source := mustPointSet(t, []float64{
		0, 0, 0,
		5, 5, 5,
	}, 3)
	target := mustPointSet(t, []float64{
		0, 0, 1,
		1, 1, 1,
		10, 10, 10,
	}, 3)
	matched, dist, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	if matched.Len() != source.Len() || len(dist) != source.Len() {
		t.Fatalf("got %d matches, %d distances, want %d of each", matched.Len(), len(dist), source.Len())
	}
	wantMatch := [][]float64{{0, 0, 1}, {1, 1, 1}}
	wantDist := []float64{1, math.Sqrt(48)}
	for i := range wantMatch {
		for d, v := range wantMatch[i] {
			if matched.At(i)[d] != v {
				t.Errorf("matched[%d] = %v, want %v", i, matched.At(i), wantMatch[i])
				break
			}
		}
		if math.Abs(dist[i]-wantDist[i]) > tol {
			t.Errorf("dist[%d] = %v, want %v", i, dist[i], wantDist[i])
		}
	}
}

func TestProjectTieLowestIndexWins(t *testing.T) {
	source := mustPointSet(t, []float64{0, 0, 0}, 3)
	target := mustPointSet(t, []float64{
		1, 0, 0,
		-1, 0, 0,
	}, 3)
	matched, dist, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	if got := matched.At(0); got[0] != 1 || got[1] != 0 || got[2] != 0 {
		t.Errorf("tie matched %v, want (1,0,0)", got)
	}
	if dist[0] != 1 {
		t.Errorf("tie distance = %v, want 1", dist[0])
	}
}

func TestProjectEmptySource(t *testing.T) {
	source := pcg.PointSet{}
	target := mustPointSet(t, []float64{1, 2, 3}, 3)
	matched, dist, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	if matched.Len() != 0 || len(dist) != 0 {
		t.Errorf("empty source gave %d matches, %d distances", matched.Len(), len(dist))
	}
}

func TestProjectEmptyTarget(t *testing.T) {
	source := mustPointSet(t, []float64{1, 2, 3}, 3)
	_, _, err := pcg.Project(source, pcg.PointSet{})
	if !errors.Is(err, pcg.ErrEmptyTarget) {
		t.Errorf("got %v, want ErrEmptyTarget", err)
	}
}

func TestProjectDimensionMismatch(t *testing.T) {
	source := mustPointSet(t, []float64{1, 2}, 2)
	target := mustPointSet(t, []float64{1, 2, 3}, 3)
	_, _, err := pcg.Project(source, target)
	if !errors.Is(err, pcg.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestProjectDistancesAreMinimal(t *testing.T) {
	// Deterministic pseudo-random clouds; every reported distance must
	// equal the distance to the reported match and lower-bound the
	// distance to every other target point.
	var seed uint64 = 0x9e3779b97f4a7c15
	next := func() float64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return float64(seed%2000)/1000 - 1
	}
	const vsN, vtN = 37, 53
	sdata := make([]float64, vsN*3)
	tdata := make([]float64, vtN*3)
	for i := range sdata {
		sdata[i] = next()
	}
	for i := range tdata {
		tdata[i] = next()
	}
	source := mustPointSet(t, sdata, 3)
	target := mustPointSet(t, tdata, 3)
	matched, dist, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < vsN; i++ {
		p := source.AtVec(i)
		if got := r3.Norm(r3.Sub(p, matched.AtVec(i))); math.Abs(got-dist[i]) > tol {
			t.Fatalf("dist[%d] = %v but match is %v away", i, dist[i], got)
		}
		for j := 0; j < vtN; j++ {
			if r3.Norm(r3.Sub(p, target.AtVec(j))) < dist[i]-tol {
				t.Fatalf("target %d closer to source %d than reported match", j, i)
			}
		}
	}
}

func TestProjectDeterministic(t *testing.T) {
	source := mustPointSet(t, []float64{0.1, 0.2, 0.3, -1, 2, -3}, 3)
	target := mustPointSet(t, []float64{0, 0, 0, 1, 1, 1, -1, 2, -2.5}, 3)
	m1, d1, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	m2, d2, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	for i := range d1 {
		if d1[i] != d2[i] || m1.AtVec(i) != m2.AtVec(i) {
			t.Fatalf("projection not deterministic at %d", i)
		}
	}
}

func TestProjectNaNPropagates(t *testing.T) {
	source := mustPointSet(t, []float64{math.NaN(), 0, 0}, 3)
	target := mustPointSet(t, []float64{1, 1, 1, 2, 2, 2}, 3)
	_, dist, err := pcg.Project(source, target)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(dist[0]) {
		t.Errorf("dist = %v, want NaN", dist[0])
	}
}

func TestProject3MatchesProject(t *testing.T) {
	source := []r3.Vec{{X: 0.5, Y: -0.25, Z: 3}, {X: -2, Y: 0, Z: 0.75}}
	target := []r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 3}, {X: -2, Y: 0.5, Z: 1}}
	m3, d3, err := pcg.Project3(source, target)
	if err != nil {
		t.Fatal(err)
	}
	m, d, err := pcg.Project(pcg.PointSetFromVecs(source), pcg.PointSetFromVecs(target))
	if err != nil {
		t.Fatal(err)
	}
	for i := range source {
		if m3[i] != m.AtVec(i) {
			t.Errorf("match %d: Project3 %v, Project %v", i, m3[i], m.AtVec(i))
		}
		if math.Abs(d3[i]-d[i]) > tol {
			t.Errorf("dist %d: Project3 %v, Project %v", i, d3[i], d[i])
		}
	}
}
