// Package vector provides a sparse feature vector and the linear algebra the classifier needs.
package vector

import "fmt"

// Sparse is a vector of dimension Dim that stores only its non-zero entries.
// Indices are strictly increasing and len(Indices) == len(Values).
type Sparse struct {
	Dim     int       `json:"dim"`
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// NNZ returns the number of stored (non-zero) entries.
func (s Sparse) NNZ() int {
	return len(s.Indices)
}

// Dot returns the inner product with a dense weight slice.
func (s Sparse) Dot(w []float64) (float64, error) {
	if len(w) != s.Dim {
		return 0, fmt.Errorf("dimension mismatch: vector has %d, weights have %d", s.Dim, len(w))
	}
	var dot float64
	for k, i := range s.Indices {
		dot += s.Values[k] * w[i]
	}
	return dot, nil
}
