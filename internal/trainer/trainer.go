// Package trainer fits the TF-IDF pipeline and classifier on the labeled corpus and persists them.
package trainer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/classifier"
	"github.com/hyperjump/fakenews/internal/cli"
	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/corpus"
	"github.com/hyperjump/fakenews/internal/features"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/store"
)

// Trainer runs load → split → fit → evaluate → persist.
type Trainer struct {
	cfg    *config.Config
	store  store.Store
	out    io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Trainer) {
		t.logger = l
	}
}

// WithOutput sets where progress messages and the report are printed.
func WithOutput(w io.Writer) Option {
	return func(t *Trainer) {
		t.out = w
	}
}

// New returns a trainer that saves artifacts to s.
func New(cfg *config.Config, s store.Store, opts ...Option) *Trainer {
	t := &Trainer{
		cfg:    cfg,
		store:  s,
		out:    io.Discard,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FeaturesConfig maps the features config section onto pipeline settings.
func FeaturesConfig(c config.FeaturesConfig) features.Config {
	return features.Config{
		MaxDF:          c.MaxDF,
		MinDF:          c.MinDF,
		MinTokenLength: c.MinTokenLength,
		StopWords:      c.StopWords,
		SublinearTF:    c.SublinearTF,
	}
}

// ClassifierConfig maps the classifier config section onto solver settings.
func ClassifierConfig(c config.ClassifierConfig) (classifier.Config, error) {
	class0, err := models.ParseLabel(c.Class0)
	if err != nil {
		return classifier.Config{}, fmt.Errorf("class_0: %w", err)
	}
	class1, err := models.ParseLabel(c.Class1)
	if err != nil {
		return classifier.Config{}, fmt.Errorf("class_1: %w", err)
	}
	return classifier.Config{
		C:         c.C,
		MaxIter:   c.MaxIter,
		Tolerance: c.Tolerance,
		Classes:   [2]models.Label{class0, class1},
	}, nil
}

// Train runs a full training pass and overwrites the stored artifacts.
func (t *Trainer) Train(ctx context.Context) (*models.TrainSummary, error) {
	start := t.now()
	runID := uuid.New().String()
	logger := t.logger.With(zap.String("run_id", runID))

	clfCfg, err := ClassifierConfig(t.cfg.Classifier)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(t.out, "Loading and preparing data...")
	loader := corpus.NewLoader(t.cfg.Data, corpus.WithLogger(logger))
	articles, stats, err := loader.LoadWithStats(t.cfg.Data.CorpusDir)
	if err != nil {
		return nil, err
	}
	counts := models.CountLabels(articles)
	if len(articles) < 2 {
		return nil, fmt.Errorf("%w: corpus has %d usable rows", models.ErrEmptyDataset, len(articles))
	}
	for _, c := range clfCfg.Classes {
		if counts[c] == 0 {
			return nil, fmt.Errorf("%w: corpus has no %s rows", models.ErrEmptyDataset, c)
		}
	}
	logger.Info("corpus ready",
		zap.Int("rows", len(articles)),
		zap.Int("fake", counts[models.LabelFake]),
		zap.Int("real", counts[models.LabelReal]),
		zap.Int("duplicates", stats.Duplicates))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(t.out, "Splitting data (train/test)...")
	train, test := Split(articles, t.cfg.Training.TestSize, t.cfg.Training.Seed)
	logger.Debug("split", zap.Int("train", len(train)), zap.Int("test", len(test)))

	fmt.Fprintln(t.out, "Vectorizing text with TF-IDF...")
	pipeline, err := features.Fit(FeaturesConfig(t.cfg.Features), texts(train))
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	xTrain, err := pipeline.Transform(texts(train))
	if err != nil {
		return nil, err
	}
	xTest, err := pipeline.Transform(texts(test))
	if err != nil {
		return nil, err
	}
	logger.Info("vocabulary fitted", zap.Int("size", pipeline.Size()))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintln(t.out, "Training Logistic Regression model...")
	model, err := classifier.Fit(clfCfg, xTrain, labels(train), classifier.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	diag := model.Diagnostics()

	var report *models.Report
	if len(test) > 0 {
		fmt.Fprintln(t.out, "Evaluating model on test data...")
		predicted := make([]models.Label, len(xTest))
		for i, x := range xTest {
			if predicted[i], err = model.Predict(x); err != nil {
				return nil, err
			}
		}
		report = Evaluate(model.Classes(), labels(test), predicted)
		cli.WriteReport(t.out, report)
	} else {
		fmt.Fprintln(t.out, "Test partition is empty; skipping evaluation.")
	}

	pState, err := pipeline.State()
	if err != nil {
		return nil, err
	}
	mState, err := model.State()
	if err != nil {
		return nil, err
	}
	artifacts := &store.Artifacts{
		Pipeline:   pState,
		Classifier: mState,
		Meta: store.Meta{
			RunID:     runID,
			TrainedAt: t.now().UTC(),
			Rows:      len(articles),
			TrainRows: len(train),
			TestRows:  len(test),
		},
	}
	if err := t.store.Save(ctx, artifacts); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}
	fmt.Fprintf(t.out, "Saved model and vectorizer to '%s'.\n", t.store.Location())
	logger.Info("artifacts saved", zap.String("location", t.store.Location()))

	return &models.TrainSummary{
		RunID:          runID,
		Rows:           len(articles),
		TrainRows:      len(train),
		TestRows:       len(test),
		LabelCounts:    counts,
		VocabularySize: pipeline.Size(),
		Converged:      diag.Converged,
		Iterations:     diag.Iterations,
		Report:         report,
		ArtifactPath:   t.store.Location(),
		Duration:       t.now().Sub(start),
	}, nil
}
