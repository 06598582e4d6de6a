// Package tokenizer turns raw text into the normalised terms the index and
// the query path compare. Text is lower-cased and split on runs of
// whitespace; an optional stopword filter and an optional stemmer are then
// applied, in that order. One Tokenizer value must serve both indexing and
// querying so the two sides always agree on what a term is.
package tokenizer

import (
	"strings"
)

// StopwordFilter reports whether a lower-cased token should be dropped.
type StopwordFilter interface {
	IsStopword(term string) bool
}

// Stemmer reduces a lower-cased token to its root form. Implementations
// return the input unchanged when they cannot stem it.
type Stemmer interface {
	Stem(term string) string
}

// StopwordFunc adapts a plain function to StopwordFilter.
type StopwordFunc func(term string) bool

func (f StopwordFunc) IsStopword(term string) bool { return f(term) }

// StemmerFunc adapts a plain function to Stemmer.
type StemmerFunc func(term string) string

func (f StemmerFunc) Stem(term string) string { return f(term) }

// SetFilter is a StopwordFilter backed by a set of lower-case words.
type SetFilter map[string]struct{}

// NewSetFilter lower-cases words into a SetFilter.
func NewSetFilter(words ...string) SetFilter {
	s := make(SetFilter, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

func (s SetFilter) IsStopword(term string) bool {
	_, ok := s[term]
	return ok
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStopwords drops every token the filter matches. A nil filter is
// ignored.
func WithStopwords(f StopwordFilter) Option {
	return func(t *Tokenizer) {
		t.stopwords = f
	}
}

// WithStemmer maps every surviving token through s. A nil stemmer is
// ignored.
func WithStemmer(s Stemmer) Option {
	return func(t *Tokenizer) {
		t.stemmer = s
	}
}

// Tokenizer is immutable once built and safe for concurrent use provided its
// collaborators are.
type Tokenizer struct {
	stopwords StopwordFilter
	stemmer   Stemmer
}

func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize returns the normalised terms of text in their original order.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil
	}
	tokens := words[:0]
	for _, word := range words {
		if t.stopwords != nil && t.stopwords.IsStopword(word) {
			continue
		}
		if t.stemmer != nil {
			word = t.stemmer.Stem(word)
			if word == "" {
				continue
			}
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Distinct returns the unique terms of text, first occurrence first.
func (t *Tokenizer) Distinct(text string) []string {
	tokens := t.Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// HasStopwords reports whether a stopword filter is installed.
func (t *Tokenizer) HasStopwords() bool { return t.stopwords != nil }

// HasStemmer reports whether a stemmer is installed.
func (t *Tokenizer) HasStemmer() bool { return t.stemmer != nil }
