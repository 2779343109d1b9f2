package dn

import "testing"

func TestSqDist(t *testing.T) {
	got := SqDist([]float64{1, 2, 3}, []float64{1, 0, 0})
	if got != 13 {
		t.Errorf("SqDist = %v, want 13", got)
	}
	if SqDist([]float64{0, 3}, []float64{4, 0}) != 25 {
		t.Error("SqDist 3-4-5 failed")
	}
}

func TestNearestTo(t *testing.T) {
	data := []float64{
		0, 0, 1,
		1, 1, 1,
		10, 10, 10,
	}
	idx, d2 := NearestTo([]float64{0, 0, 0}, data, 3)
	if idx != 0 || d2 != 1 {
		t.Errorf("NearestTo = %d,%v want 0,1", idx, d2)
	}
	idx, d2 = NearestTo([]float64{5, 5, 5}, data, 3)
	if idx != 1 || d2 != 48 {
		t.Errorf("NearestTo = %d,%v want 1,48", idx, d2)
	}
}

func TestNearestToFirstMinimumWins(t *testing.T) {
	data := []float64{
		1, 0, 0,
		-1, 0, 0,
	}
	idx, d2 := NearestTo([]float64{0, 0, 0}, data, 3)
	if idx != 0 || d2 != 1 {
		t.Errorf("NearestTo tie = %d,%v want 0,1", idx, d2)
	}
}
