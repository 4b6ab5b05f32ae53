// Package store persists the fitted vectorizer and classifier between training and inference.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/fakenews/internal/classifier"
	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/features"
)

// ErrArtifactNotFound is returned by Load when nothing has been saved yet.
var ErrArtifactNotFound = errors.New("artifacts not found")

// ErrArtifactMismatch is returned by Load when the vectorizer and model come from different training runs.
var ErrArtifactMismatch = errors.New("vectorizer and model are from different runs")

// Artifact names, used as file names on disk and row keys in SQLite.
const (
	VectorizerName = "tfidf_vectorizer.json"
	ModelName      = "fake_news_model.json"
)

// Meta records where a pair of artifacts came from.
type Meta struct {
	RunID     string    `json:"run_id"`
	TrainedAt time.Time `json:"trained_at"`
	Rows      int       `json:"rows"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
}

// Artifacts is the persisted vectorizer and classifier pair.
type Artifacts struct {
	Pipeline   features.State   `json:"pipeline"`
	Classifier classifier.State `json:"classifier"`
	Meta       Meta             `json:"meta"`
}

// Store saves and loads the artifact pair.
type Store interface {
	// Save overwrites any previously saved artifacts.
	Save(ctx context.Context, a *Artifacts) error
	Load(ctx context.Context) (*Artifacts, error)
	// Location describes where artifacts live (a directory or database path).
	Location() string
	Close() error
}

// vectorizerFile and modelFile are the two persisted documents; Meta travels with both.
type vectorizerFile struct {
	Meta     Meta           `json:"meta"`
	Pipeline features.State `json:"pipeline"`
}

type modelFile struct {
	Meta       Meta             `json:"meta"`
	Classifier classifier.State `json:"classifier"`
}

// assemble pairs the two persisted documents, rejecting a pair from different runs.
func assemble(vf vectorizerFile, mf modelFile) (*Artifacts, error) {
	if vf.Meta.RunID != mf.Meta.RunID {
		return nil, fmt.Errorf("%w: vectorizer %q, model %q", ErrArtifactMismatch, vf.Meta.RunID, mf.Meta.RunID)
	}
	return &Artifacts{Pipeline: vf.Pipeline, Classifier: mf.Classifier, Meta: mf.Meta}, nil
}

// New opens the backend selected by cfg.Backend ("disk" or "sqlite").
func New(cfg config.ArtifactsConfig) (Store, error) {
	switch cfg.Backend {
	case "", "disk":
		return NewDiskStore(cfg.ModelDir), nil
	case "sqlite":
		return NewSQLiteStore(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}
