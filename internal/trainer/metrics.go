package trainer

import (
	"github.com/hyperjump/fakenews/internal/models"
)

// Evaluate builds a classification report for predicted against true labels.
// Metrics with a zero denominator are reported as 0.
func Evaluate(classes [2]models.Label, truth, predicted []models.Label) *models.Report {
	r := &models.Report{Classes: classes}
	index := func(l models.Label) int {
		switch l {
		case classes[0]:
			return 0
		case classes[1]:
			return 1
		default:
			return -1
		}
	}
	correct := 0
	for i := range truth {
		t, p := index(truth[i]), index(predicted[i])
		if t < 0 || p < 0 {
			continue
		}
		r.Confusion[t][p]++
		r.Total++
		if t == p {
			correct++
		}
	}
	if r.Total == 0 {
		for c := range classes {
			r.PerClass[c].Label = classes[c]
		}
		return r
	}

	r.Accuracy = float64(correct) / float64(r.Total)
	for c := range classes {
		tp := r.Confusion[c][c]
		support := r.Confusion[c][0] + r.Confusion[c][1]
		predictedAs := r.Confusion[0][c] + r.Confusion[1][c]
		m := models.ClassMetrics{
			Label:     classes[c],
			Precision: ratio(tp, predictedAs),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.PerClass[c] = m

		r.MacroAvg.Precision += m.Precision / 2
		r.MacroAvg.Recall += m.Recall / 2
		r.MacroAvg.F1 += m.F1 / 2
		w := float64(support) / float64(r.Total)
		r.Weighted.Precision += m.Precision * w
		r.Weighted.Recall += m.Recall * w
		r.Weighted.F1 += m.F1 * w
	}
	r.MacroAvg.Support = r.Total
	r.Weighted.Support = r.Total
	return r
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
