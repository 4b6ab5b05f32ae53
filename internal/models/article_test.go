package models

import (
	"testing"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Label
		wantErr bool
	}{
		{"fake upper", "FAKE", LabelFake, false},
		{"real lower", "real", LabelReal, false},
		{"padded", "  Fake ", LabelFake, false},
		{"empty", "", "", true},
		{"unknown", "satire", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountLabels(t *testing.T) {
	articles := []Article{
		{CombinedText: "a", Label: LabelFake},
		{CombinedText: "b", Label: LabelReal},
		{CombinedText: "c", Label: LabelFake},
	}
	counts := CountLabels(articles)
	if counts[LabelFake] != 2 || counts[LabelReal] != 1 {
		t.Errorf("CountLabels = %v", counts)
	}
}

func TestProbabilities(t *testing.T) {
	p := Probabilities{Fake: 0.25, Real: 0.75}
	if p.Of(LabelFake) != 0.25 || p.Of(LabelReal) != 0.75 {
		t.Errorf("Of: got fake=%v real=%v", p.Of(LabelFake), p.Of(LabelReal))
	}
	if p.Of(Label("OTHER")) != 0 {
		t.Error("unknown label should have probability 0")
	}
	if got := p.Ordered(); got != [2]float64{0.25, 0.75} {
		t.Errorf("Ordered = %v", got)
	}
}

func TestPrediction_Informative(t *testing.T) {
	p := &Prediction{Label: LabelFake}
	if p.Informative() {
		t.Error("empty contributions should not be informative")
	}
	p.Contributions = []Contribution{{Token: "hoax", Contribution: -0.3}}
	if !p.Informative() {
		t.Error("non-empty contributions should be informative")
	}
}
