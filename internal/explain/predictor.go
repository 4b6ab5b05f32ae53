// Package explain classifies text and ranks the words that drove the decision.
package explain

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hyperjump/fakenews/internal/classifier"
	"github.com/hyperjump/fakenews/internal/features"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/store"
)

// DefaultTopN is used when a caller leaves topN at zero.
const DefaultTopN = 10

// ErrInvalidTopN is returned for a negative contribution count.
var ErrInvalidTopN = errors.New("top-n must not be negative")

// Predictor pairs a fitted pipeline with a fitted model of the same dimension.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	pipeline *features.Pipeline
	model    *classifier.Model
	meta     store.Meta
}

// New builds a predictor from already-loaded components.
func New(p *features.Pipeline, m *classifier.Model) (*Predictor, error) {
	if !p.Fitted() || !m.Fitted() {
		return nil, models.ErrNotFitted
	}
	if p.Size() != m.Dim() {
		return nil, fmt.Errorf("%w: vocabulary has %d tokens but model has %d weights", models.ErrArtifactLoad, p.Size(), m.Dim())
	}
	return &Predictor{pipeline: p, model: m}, nil
}

// Load reads the artifact pair from s and builds a predictor.
func Load(ctx context.Context, s store.Store) (*Predictor, error) {
	a, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrArtifactLoad, s.Location(), err)
	}
	p, err := features.FromState(a.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorizer: %w", models.ErrArtifactLoad, err)
	}
	m, err := classifier.FromState(a.Classifier)
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", models.ErrArtifactLoad, err)
	}
	pred, err := New(p, m)
	if err != nil {
		return nil, err
	}
	pred.meta = a.Meta
	return pred, nil
}

// Meta returns the training metadata recorded with the loaded artifacts.
func (p *Predictor) Meta() store.Meta {
	return p.meta
}

// Classes returns the model's ordered class pair.
func (p *Predictor) Classes() [2]models.Label {
	return p.model.Classes()
}

// VocabularySize returns the feature dimension.
func (p *Predictor) VocabularySize() int {
	return p.pipeline.Size()
}

// PredictWithExplanation classifies text and returns up to topN contributions
// (value × weight per present token). Contributions are sorted descending when the
// predicted label is the positive class and ascending otherwise, so the list always
// starts with the words that pushed hardest toward the prediction. Ties are broken
// by token. topN == 0 means DefaultTopN; a negative topN is rejected.
func (p *Predictor) PredictWithExplanation(text string, topN int) (*models.Prediction, error) {
	if p == nil || !p.pipeline.Fitted() || !p.model.Fitted() {
		return nil, models.ErrNotFitted
	}
	if topN < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
	}
	if topN == 0 {
		topN = DefaultTopN
	}
	x, err := p.pipeline.TransformOne(text)
	if err != nil {
		return nil, err
	}
	label, probs, score, err := p.model.Decide(x)
	if err != nil {
		return nil, err
	}

	contributions := make([]models.Contribution, 0, x.NNZ())
	for k, i := range x.Indices {
		contributions = append(contributions, models.Contribution{
			Token:        p.pipeline.Token(i),
			Contribution: x.Values[k] * p.model.Weight(i),
		})
	}
	descending := label == p.model.Classes()[1]
	sort.SliceStable(contributions, func(a, b int) bool {
		ca, cb := contributions[a], contributions[b]
		if ca.Contribution != cb.Contribution {
			if descending {
				return ca.Contribution > cb.Contribution
			}
			return ca.Contribution < cb.Contribution
		}
		return ca.Token < cb.Token
	})
	if len(contributions) > topN {
		contributions = contributions[:topN]
	}

	return &models.Prediction{
		Label:         label,
		Probabilities: probs,
		Score:         score,
		Contributions: contributions,
	}, nil
}
