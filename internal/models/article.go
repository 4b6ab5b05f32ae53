// Package models defines core data structures for articles, predictions, and training reports.
package models

import (
	"fmt"
	"strings"
)

// Label is the class of an article.
type Label string

const (
	// LabelFake marks fabricated articles.
	LabelFake Label = "FAKE"
	// LabelReal marks legitimate articles.
	LabelReal Label = "REAL"
)

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// ParseLabel converts s (case-insensitive, trimmed) into a Label.
func ParseLabel(s string) (Label, error) {
	switch Label(strings.ToUpper(strings.TrimSpace(s))) {
	case LabelFake:
		return LabelFake, nil
	case LabelReal:
		return LabelReal, nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}

// Article is one cleaned, labeled corpus row.
type Article struct {
	CombinedText string `json:"combined_text"`
	Label        Label  `json:"label"`
}

// CountLabels returns how many articles carry each label.
func CountLabels(articles []Article) map[Label]int {
	counts := make(map[Label]int)
	for _, a := range articles {
		counts[a.Label]++
	}
	return counts
}
