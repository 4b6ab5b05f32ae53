package models

import "time"

// ClassMetrics are the per-class evaluation numbers.
type ClassMetrics struct {
	Label     Label   `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is the evaluation of a classifier on a held-out partition.
// Confusion rows are true classes and columns predicted classes, both in Classes order.
type Report struct {
	Classes   [2]Label        `json:"classes"`
	PerClass  [2]ClassMetrics `json:"per_class"`
	Accuracy  float64         `json:"accuracy"`
	MacroAvg  ClassMetrics    `json:"macro_avg"`
	Weighted  ClassMetrics    `json:"weighted_avg"`
	Confusion [2][2]int       `json:"confusion"`
	Total     int             `json:"total"`
}

// TrainSummary describes one completed training run.
type TrainSummary struct {
	RunID          string        `json:"run_id"`
	Rows           int           `json:"rows"`
	TrainRows      int           `json:"train_rows"`
	TestRows       int           `json:"test_rows"`
	LabelCounts    map[Label]int `json:"label_counts"`
	VocabularySize int           `json:"vocabulary_size"`
	Converged      bool          `json:"converged"`
	Iterations     int           `json:"iterations"`
	Report         *Report       `json:"report,omitempty"`
	ArtifactPath   string        `json:"artifact_path"`
	Duration       time.Duration `json:"duration"`
}
