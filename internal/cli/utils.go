// Package cli provides output formatting for the fakenews commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/fakenews/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json", or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", s)
	}
}

// Separator ends every interactive response.
var Separator = strings.Repeat("-", 60)

// NoInformativeWords is printed when no input token is in the vocabulary.
const NoInformativeWords = "(No informative words found in this text.)"

// WritePrediction writes a prediction and its explanation to w in the given format.
func WritePrediction(w io.Writer, p *models.Prediction, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, p)
	}
	probs := p.Probabilities.Ordered()
	fmt.Fprintf(w, "\nPrediction: %s\n", p.Label)
	fmt.Fprintf(w, "Probabilities [FAKE, REAL]: [%.4f, %.4f]\n", probs[0], probs[1])
	if p.Informative() {
		fmt.Fprintln(w, "\nTop words that influenced this prediction:")
		for _, c := range p.Contributions {
			fmt.Fprintf(w, "  %-20s  contribution: %.4f\n", c.Token, c.Contribution)
		}
	} else {
		fmt.Fprintf(w, "\n%s\n", NoInformativeWords)
	}
	fmt.Fprintln(w, Separator)
	return nil
}

// WriteReport writes a classification report and confusion matrix.
func WriteReport(w io.Writer, r *models.Report) {
	width := len("weighted avg")
	for _, l := range r.Classes {
		if len(l) > width {
			width = len(l)
		}
	}
	fmt.Fprintf(w, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, m := range r.PerClass {
		fmt.Fprintf(w, "%*s %9.2f %9.2f %9.2f %9d\n", width, m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(w, "%*s %9.2f %9.2f %9.2f %9d\n", width, "macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.Total)
	fmt.Fprintf(w, "%*s %9.2f %9.2f %9.2f %9d\n", width, "weighted avg", r.Weighted.Precision, r.Weighted.Recall, r.Weighted.F1, r.Total)
	fmt.Fprintln(w)
	WriteConfusion(w, r.Confusion)
}

// WriteConfusion writes a 2x2 confusion matrix, rows true and columns predicted.
func WriteConfusion(w io.Writer, c [2][2]int) {
	cell := 1
	for _, row := range c {
		for _, v := range row {
			if n := len(fmt.Sprint(v)); n > cell {
				cell = n
			}
		}
	}
	fmt.Fprintf(w, "[[%*d %*d]\n", cell, c[0][0], cell, c[0][1])
	fmt.Fprintf(w, " [%*d %*d]]\n", cell, c[1][0], cell, c[1][1])
}

// WriteSummary writes the outcome of a training run.
func WriteSummary(w io.Writer, s *models.TrainSummary, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, s)
	}
	fmt.Fprintf(w, "Run:         %s\n", s.RunID)
	fmt.Fprintf(w, "Rows:        %d (train %d, test %d)\n", s.Rows, s.TrainRows, s.TestRows)
	fmt.Fprintf(w, "Labels:      FAKE %d, REAL %d\n", s.LabelCounts[models.LabelFake], s.LabelCounts[models.LabelReal])
	fmt.Fprintf(w, "Vocabulary:  %d tokens\n", s.VocabularySize)
	converged := "yes"
	if !s.Converged {
		converged = "no"
	}
	fmt.Fprintf(w, "Converged:   %s (%d iterations)\n", converged, s.Iterations)
	if s.Report != nil {
		fmt.Fprintf(w, "Accuracy:    %.4f\n", s.Report.Accuracy)
	}
	fmt.Fprintf(w, "Artifacts:   %s\n", s.ArtifactPath)
	fmt.Fprintf(w, "Duration:    %s\n", s.Duration.Round(1e6))
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
