package models

import "errors"

var (
	// ErrDataSource is returned when a corpus file is missing, unreadable, or lacks required columns.
	ErrDataSource = errors.New("data source error")
	// ErrEmptyDataset is returned when the corpus has fewer than two rows or a single class.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrNotFitted is returned when a pipeline, classifier, or predictor is used before fit/load.
	ErrNotFitted = errors.New("not fitted")
	// ErrArtifactLoad is returned when persisted artifacts are missing or corrupt at startup.
	ErrArtifactLoad = errors.New("artifact load error")
)
