package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	x := []float64{3, 4}
	NormalizeL2(x)
	if math.Abs(x[0]-0.6) > 1e-12 || math.Abs(x[1]-0.8) > 1e-12 {
		t.Errorf("NormalizeL2 = %v, want [0.6 0.8]", x)
	}
	zero := []float64{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed: %v", zero)
	}
}

func TestSigmoid(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{0, 0.5},
		{800, 1},
		{-800, 0},
		{2, 1 / (1 + math.Exp(-2))},
	}
	for _, tt := range tests {
		got := Sigmoid(tt.z)
		if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Sigmoid(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
	if s := Sigmoid(3) + Sigmoid(-3); math.Abs(s-1) > 1e-12 {
		t.Errorf("Sigmoid(3)+Sigmoid(-3) = %v, want 1", s)
	}
}

func TestLog1pExp(t *testing.T) {
	if got := Log1pExp(0); math.Abs(got-math.Ln2) > 1e-12 {
		t.Errorf("Log1pExp(0) = %v", got)
	}
	if got := Log1pExp(1000); math.Abs(got-1000) > 1e-9 {
		t.Errorf("Log1pExp(1000) = %v", got)
	}
	if got := Log1pExp(-1000); got < 0 || got > 1e-300 {
		t.Errorf("Log1pExp(-1000) = %v", got)
	}
}
