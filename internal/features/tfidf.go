// Package features turns raw article text into fixed-length TF-IDF vectors.
package features

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/vector"
	"github.com/hyperjump/fakenews/pkg/utils"
)

// ErrEmptyVocabulary is returned by Fit when document frequency pruning leaves no tokens.
var ErrEmptyVocabulary = errors.New("empty vocabulary after pruning")

// Config holds vocabulary and weighting settings.
type Config struct {
	// MaxDF drops tokens present in more than MaxDF * N documents (0 < MaxDF <= 1).
	MaxDF float64 `json:"max_df"`
	// MinDF drops tokens present in fewer than MinDF documents.
	MinDF          int    `json:"min_df"`
	MinTokenLength int    `json:"min_token_length"`
	StopWords      string `json:"stop_words"`
	SublinearTF    bool   `json:"sublinear_tf"`
}

// DefaultConfig returns the default vocabulary settings.
func DefaultConfig() Config {
	return Config{
		MaxDF:          0.7,
		MinDF:          1,
		MinTokenLength: 2,
		StopWords:      StopWordsEnglish,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxDF <= 0 || c.MaxDF > 1 {
		c.MaxDF = d.MaxDF
	}
	if c.MinDF <= 0 {
		c.MinDF = d.MinDF
	}
	if c.MinTokenLength <= 0 {
		c.MinTokenLength = d.MinTokenLength
	}
	if c.StopWords == "" {
		c.StopWords = d.StopWords
	}
	return c
}

// State is the serializable form of a fitted pipeline.
type State struct {
	Config     Config    `json:"config"`
	Vocabulary []string  `json:"vocabulary"`
	IDF        []float64 `json:"idf"`
}

// Pipeline maps text to L2-normalized TF-IDF vectors over a frozen vocabulary.
// The zero value is unfitted; use Fit or FromState. A fitted Pipeline is immutable
// and safe for concurrent use.
type Pipeline struct {
	cfg       Config
	tokenizer *Tokenizer
	vocab     []string
	index     map[string]int
	idf       []float64
}

// Fit learns the vocabulary and idf weights from texts.
func Fit(cfg Config, texts []string) (*Pipeline, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("fit tf-idf: %w", models.ErrEmptyDataset)
	}
	cfg = cfg.withDefaults()
	tokenizer, err := NewTokenizer(cfg.StopWords, cfg.MinTokenLength)
	if err != nil {
		return nil, err
	}

	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, tok := range tokenizer.Tokens(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := len(texts)
	maxDocs := cfg.MaxDF * float64(n)
	vocab := make([]string, 0, len(df))
	for tok, count := range df {
		if float64(count) > maxDocs || count < cfg.MinDF {
			continue
		}
		vocab = append(vocab, tok)
	}
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(vocab)

	idf := make([]float64, len(vocab))
	for i, tok := range vocab {
		idf[i] = math.Log(float64(1+n)/float64(1+df[tok])) + 1
	}
	return newPipeline(cfg, tokenizer, vocab, idf), nil
}

// FromState restores a fitted pipeline from its serialized form.
func FromState(s State) (*Pipeline, error) {
	if len(s.Vocabulary) == 0 {
		return nil, fmt.Errorf("restore tf-idf: %w", ErrEmptyVocabulary)
	}
	if len(s.Vocabulary) != len(s.IDF) {
		return nil, fmt.Errorf("restore tf-idf: vocabulary has %d tokens but idf has %d weights", len(s.Vocabulary), len(s.IDF))
	}
	for i := 1; i < len(s.Vocabulary); i++ {
		if s.Vocabulary[i-1] >= s.Vocabulary[i] {
			return nil, fmt.Errorf("restore tf-idf: vocabulary not strictly sorted at %d", i)
		}
	}
	cfg := s.Config.withDefaults()
	tokenizer, err := NewTokenizer(cfg.StopWords, cfg.MinTokenLength)
	if err != nil {
		return nil, fmt.Errorf("restore tf-idf: %w", err)
	}
	vocab := append([]string(nil), s.Vocabulary...)
	idf := append([]float64(nil), s.IDF...)
	return newPipeline(cfg, tokenizer, vocab, idf), nil
}

func newPipeline(cfg Config, tokenizer *Tokenizer, vocab []string, idf []float64) *Pipeline {
	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}
	return &Pipeline{cfg: cfg, tokenizer: tokenizer, vocab: vocab, index: index, idf: idf}
}

// Fitted reports whether the pipeline has a vocabulary.
func (p *Pipeline) Fitted() bool {
	return p != nil && len(p.vocab) > 0
}

// Transform maps each text to a vector of dimension Size. Tokens outside the
// vocabulary are ignored; a text with no known tokens yields an all-zero vector.
func (p *Pipeline) Transform(texts []string) ([]vector.Sparse, error) {
	if !p.Fitted() {
		return nil, models.ErrNotFitted
	}
	out := make([]vector.Sparse, len(texts))
	for i, text := range texts {
		out[i] = p.transform(text)
	}
	return out, nil
}

// TransformOne maps a single text to its vector.
func (p *Pipeline) TransformOne(text string) (vector.Sparse, error) {
	if !p.Fitted() {
		return vector.Sparse{}, models.ErrNotFitted
	}
	return p.transform(text), nil
}

func (p *Pipeline) transform(text string) vector.Sparse {
	counts := make(map[int]int)
	for _, tok := range p.tokenizer.Tokens(text) {
		if i, ok := p.index[tok]; ok {
			counts[i]++
		}
	}
	v := vector.Sparse{
		Dim:     len(p.vocab),
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)
	for _, i := range v.Indices {
		tf := float64(counts[i])
		if p.cfg.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		v.Values = append(v.Values, tf*p.idf[i])
	}
	utils.NormalizeL2(v.Values)
	return v
}

// Size returns the vocabulary size (the vector dimension).
func (p *Pipeline) Size() int {
	if p == nil {
		return 0
	}
	return len(p.vocab)
}

// Vocabulary returns a copy of the vocabulary in index order.
func (p *Pipeline) Vocabulary() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.vocab...)
}

// Token returns the token at index i, or "" when out of range.
func (p *Pipeline) Token(i int) string {
	if p == nil || i < 0 || i >= len(p.vocab) {
		return ""
	}
	return p.vocab[i]
}

// Index returns the vocabulary index of tok.
func (p *Pipeline) Index(tok string) (int, bool) {
	if p == nil {
		return 0, false
	}
	i, ok := p.index[tok]
	return i, ok
}

// IDF returns a copy of the idf weights in index order.
func (p *Pipeline) IDF() []float64 {
	if p == nil {
		return nil
	}
	return append([]float64(nil), p.idf...)
}

// Config returns the settings the pipeline was fitted with.
func (p *Pipeline) Config() Config {
	if p == nil {
		return Config{}
	}
	return p.cfg
}

// State returns the serializable form of the pipeline.
func (p *Pipeline) State() (State, error) {
	if !p.Fitted() {
		return State{}, models.ErrNotFitted
	}
	return State{Config: p.cfg, Vocabulary: p.Vocabulary(), IDF: p.IDF()}, nil
}
