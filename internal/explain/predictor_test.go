package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/fakenews/internal/classifier"
	"github.com/hyperjump/fakenews/internal/features"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a predictor over a small hand-set vocabulary. All idf weights are
// equal, so each token's vector value is its count divided by the document norm.
func fixture(t *testing.T, weights []float64, bias float64) *Predictor {
	t.Helper()
	vocab := []string{"aliens", "budget", "hoax", "moon", "senate", "shocking"}
	require.Len(t, weights, len(vocab))
	idf := make([]float64, len(vocab))
	for i := range idf {
		idf[i] = 1
	}
	p, err := features.FromState(features.State{Config: features.DefaultConfig(), Vocabulary: vocab, IDF: idf})
	require.NoError(t, err)
	m, err := classifier.FromState(classifier.State{Config: classifier.DefaultConfig(), Weights: weights, Bias: bias})
	require.NoError(t, err)
	pred, err := New(p, m)
	require.NoError(t, err)
	return pred
}

func TestPredictWithExplanation_fakeAscending(t *testing.T) {
	//                      aliens budget hoax moon senate shocking
	pred := fixture(t, []float64{-3, 2, -5, -1, 4, -2}, 0)

	got, err := pred.PredictWithExplanation("Shocking hoax: aliens on the moon", 10)
	require.NoError(t, err)
	assert.Equal(t, models.LabelFake, got.Label)
	require.Len(t, got.Contributions, 4)
	tokens := make([]string, len(got.Contributions))
	for i, c := range got.Contributions {
		tokens[i] = c.Token
		assert.Less(t, c.Contribution, 0.0)
	}
	assert.Equal(t, []string{"hoax", "aliens", "shocking", "moon"}, tokens)
	for i := 1; i < len(got.Contributions); i++ {
		assert.LessOrEqual(t, got.Contributions[i-1].Contribution, got.Contributions[i].Contribution)
	}
	assert.InDelta(t, 1.0, got.Probabilities.Fake+got.Probabilities.Real, 1e-12)
	assert.Greater(t, got.Probabilities.Fake, 0.5)
}

func TestPredictWithExplanation_realDescending(t *testing.T) {
	pred := fixture(t, []float64{-3, 2, -5, -1, 4, -2}, 0)

	got, err := pred.PredictWithExplanation("Senate passes budget", 10)
	require.NoError(t, err)
	assert.Equal(t, models.LabelReal, got.Label)
	require.Len(t, got.Contributions, 2)
	assert.Equal(t, "senate", got.Contributions[0].Token)
	assert.Equal(t, "budget", got.Contributions[1].Token)
	assert.Greater(t, got.Contributions[0].Contribution, got.Contributions[1].Contribution)
	assert.Greater(t, got.Probabilities.Real, 0.5)
}

func TestPredictWithExplanation_contributionValues(t *testing.T) {
	pred := fixture(t, []float64{-3, 2, -5, -1, 4, -2}, 0.25)

	got, err := pred.PredictWithExplanation("senate senate budget", 0)
	require.NoError(t, err)
	// counts (2, 1), equal idf, L2 normalized: values 2/√5 and 1/√5.
	norm := 2.23606797749979
	want := map[string]float64{"senate": 4 * 2 / norm, "budget": 2 * 1 / norm}
	for _, c := range got.Contributions {
		assert.InDelta(t, want[c.Token], c.Contribution, 1e-12, c.Token)
	}
	assert.InDelta(t, want["senate"]+want["budget"]+0.25, got.Score, 1e-12)
}

func TestPredictWithExplanation_topN(t *testing.T) {
	pred := fixture(t, []float64{-3, 2, -5, -1, 4, -2}, 0)
	text := "aliens budget hoax moon senate shocking"

	tests := []struct {
		topN int
		want int
	}{
		{1, 1},
		{3, 3},
		{6, 6},
		{50, 6},
		{0, 6},
	}
	for _, tt := range tests {
		got, err := pred.PredictWithExplanation(text, tt.topN)
		require.NoError(t, err)
		assert.Len(t, got.Contributions, tt.want, "topN=%d", tt.topN)
	}

	_, err := pred.PredictWithExplanation(text, -4)
	assert.ErrorIs(t, err, ErrInvalidTopN)
}

func TestPredictWithExplanation_tiesBrokenByToken(t *testing.T) {
	pred := fixture(t, []float64{-1, 0, -1, -1, 0, 0}, 0)
	got, err := pred.PredictWithExplanation("moon hoax aliens", 10)
	require.NoError(t, err)
	require.Len(t, got.Contributions, 3)
	assert.Equal(t, "aliens", got.Contributions[0].Token)
	assert.Equal(t, "hoax", got.Contributions[1].Token)
	assert.Equal(t, "moon", got.Contributions[2].Token)
}

func TestPredictWithExplanation_emptyText(t *testing.T) {
	pred := fixture(t, []float64{-3, 2, -5, -1, 4, -2}, 0.5)

	for _, text := range []string{"", "the of and", "zzz qqq"} {
		got, err := pred.PredictWithExplanation(text, 10)
		require.NoError(t, err)
		assert.Equal(t, models.LabelReal, got.Label, "bias-driven label for %q", text)
		assert.NotNil(t, got.Contributions)
		assert.Empty(t, got.Contributions)
		assert.False(t, got.Informative())
		assert.InDelta(t, 0.5, got.Score, 1e-12)
	}
}

func TestPredictWithExplanation_unfitted(t *testing.T) {
	var p Predictor
	_, err := p.PredictWithExplanation("anything", 5)
	assert.ErrorIs(t, err, models.ErrNotFitted)

	var nilPred *Predictor
	_, err = nilPred.PredictWithExplanation("anything", 5)
	assert.ErrorIs(t, err, models.ErrNotFitted)
}

func TestNew_errors(t *testing.T) {
	p, err := features.FromState(features.State{Vocabulary: []string{"alpha", "beta"}, IDF: []float64{1, 1}})
	require.NoError(t, err)
	m, err := classifier.FromState(classifier.State{Weights: []float64{1, 2, 3}})
	require.NoError(t, err)

	_, err = New(p, m)
	assert.ErrorIs(t, err, models.ErrArtifactLoad)

	_, err = New(nil, m)
	assert.ErrorIs(t, err, models.ErrNotFitted)
	_, err = New(p, &classifier.Model{})
	assert.ErrorIs(t, err, models.ErrNotFitted)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewDiskStore(t.TempDir())

	_, err := Load(ctx, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrArtifactLoad)
	assert.True(t, errors.Is(err, store.ErrArtifactNotFound))

	a := &store.Artifacts{
		Pipeline:   features.State{Vocabulary: []string{"budget", "hoax"}, IDF: []float64{1, 1}},
		Classifier: classifier.State{Weights: []float64{1, -1}},
		Meta:       store.Meta{RunID: "run-42"},
	}
	require.NoError(t, s.Save(ctx, a))

	pred, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "run-42", pred.Meta().RunID)
	assert.Equal(t, 2, pred.VocabularySize())
	assert.Equal(t, [2]models.Label{models.LabelFake, models.LabelReal}, pred.Classes())

	got, err := pred.PredictWithExplanation("hoax", 10)
	require.NoError(t, err)
	assert.Equal(t, models.LabelFake, got.Label)

	a.Classifier.Weights = []float64{1}
	require.NoError(t, s.Save(ctx, a))
	_, err = Load(ctx, s)
	assert.ErrorIs(t, err, models.ErrArtifactLoad)
}
