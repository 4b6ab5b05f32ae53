package features

import (
	"fmt"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/registry"
)

// Stop word settings accepted by Config.StopWords.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
)

// Tokenizer splits text into lower-cased word tokens using a bleve analysis chain:
// Unicode word boundaries, lower-casing, and optionally the English stop list.
// Word-internal periods and apostrophes stay in the token ("u.s", "3.5", "trump's").
type Tokenizer struct {
	analyzer  analysis.Analyzer
	minLength int
}

// NewTokenizer builds the analysis chain for the given stop word setting.
func NewTokenizer(stopWords string, minLength int) (*Tokenizer, error) {
	cache := registry.NewCache()
	tok, err := cache.TokenizerNamed(unicode.Name)
	if err != nil {
		return nil, fmt.Errorf("tokenizer %s: %w", unicode.Name, err)
	}
	lower, err := cache.TokenFilterNamed(lowercase.Name)
	if err != nil {
		return nil, fmt.Errorf("token filter %s: %w", lowercase.Name, err)
	}
	filters := []analysis.TokenFilter{lower}
	switch stopWords {
	case "", StopWordsEnglish:
		stop, err := cache.TokenFilterNamed(en.StopName)
		if err != nil {
			return nil, fmt.Errorf("token filter %s: %w", en.StopName, err)
		}
		filters = append(filters, stop)
	case StopWordsNone:
	default:
		return nil, fmt.Errorf("unsupported stop words %q", stopWords)
	}
	if minLength <= 0 {
		minLength = 1
	}
	return &Tokenizer{
		analyzer: &analysis.DefaultAnalyzer{
			Tokenizer:    tok,
			TokenFilters: filters,
		},
		minLength: minLength,
	}, nil
}

// Tokens returns the tokens of text in order of appearance, duplicates included.
func (t *Tokenizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	stream := t.analyzer.Analyze([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, token := range stream {
		if utf8.RuneCount(token.Term) < t.minLength {
			continue
		}
		tokens = append(tokens, string(token.Term))
	}
	return tokens
}
