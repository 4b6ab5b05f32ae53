package models

// Contribution is the signed push a single token gave to the linear decision score.
type Contribution struct {
	Token        string  `json:"token"`
	Contribution float64 `json:"contribution"`
}

// Probabilities holds class probabilities. They always sum to 1.
type Probabilities struct {
	Fake float64 `json:"fake"`
	Real float64 `json:"real"`
}

// Of returns the probability of label (0 for unknown labels).
func (p Probabilities) Of(label Label) float64 {
	switch label {
	case LabelFake:
		return p.Fake
	case LabelReal:
		return p.Real
	default:
		return 0
	}
}

// Ordered returns the probabilities in fixed [FAKE, REAL] order.
func (p Probabilities) Ordered() [2]float64 {
	return [2]float64{p.Fake, p.Real}
}

// Prediction is the result of classifying and explaining one text.
type Prediction struct {
	// ID is set by the HTTP API to correlate requests; empty elsewhere.
	ID            string         `json:"id,omitempty"`
	Label         Label          `json:"label"`
	Probabilities Probabilities  `json:"probabilities"`
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Informative reports whether any input word carried weight.
func (p *Prediction) Informative() bool {
	return len(p.Contributions) > 0
}
