package vector

import "testing"

func TestSparse_NNZ(t *testing.T) {
	s := Sparse{Dim: 5, Indices: []int{1, 4}, Values: []float64{1.5, -2}}
	if s.NNZ() != 2 {
		t.Errorf("NNZ = %d, want 2", s.NNZ())
	}
	if (Sparse{Dim: 3}).NNZ() != 0 {
		t.Error("empty vector should have no entries")
	}
}

func TestSparse_Dot(t *testing.T) {
	s := Sparse{Dim: 4, Indices: []int{0, 2}, Values: []float64{2, 3}}
	got, err := s.Dot([]float64{1, 100, -1, 100})
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Errorf("Dot = %v, want -1", got)
	}
	if _, err := s.Dot([]float64{1, 2}); err == nil {
		t.Error("expected dimension mismatch error")
	}
	empty := Sparse{Dim: 2}
	if got, _ := empty.Dot([]float64{5, 5}); got != 0 {
		t.Errorf("empty Dot = %v, want 0", got)
	}
}
