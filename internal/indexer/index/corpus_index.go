package index

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

// Tokenizer is the part of the tokenizer the index depends on.
type Tokenizer interface {
	Tokenize(text string) []string
}

// CorpusIndex holds per-document term counts and lengths plus per-term
// document sets for a fixed corpus. It is never mutated after Build returns.
type CorpusIndex struct {
	docs      []Document
	tf        []TermCounts
	docSets   map[string][]int
	totalLen  int64
	avgDocLen float64
}

type buildConfig struct {
	workers int
}

// BuildOption tunes index construction.
type BuildOption func(*buildConfig)

// WithWorkers bounds the number of goroutines tokenizing documents. Values
// below 1 mean GOMAXPROCS.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// Build tokenizes every document with tok and derives the term-frequency and
// document-frequency tables. Documents are tokenized concurrently but merged
// in index order, so the result matches a sequential pass exactly.
func Build(corpus []string, tok Tokenizer, opts ...BuildOption) (*CorpusIndex, error) {
	if len(corpus) == 0 {
		return nil, apperrors.Validation(apperrors.ErrInvalidCorpus, "corpus must contain at least one document")
	}
	if tok == nil {
		return nil, apperrors.Validation(apperrors.ErrInvalidInput, "tokenizer is required")
	}
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	tf := make([]TermCounts, len(corpus))
	lengths := make([]int, len(corpus))

	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i, text := range corpus {
		g.Go(func() error {
			tokens := tok.Tokenize(text)
			counts := make(TermCounts, len(tokens))
			for _, term := range tokens {
				counts[term]++
			}
			tf[i] = counts
			lengths[i] = len(tokens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &CorpusIndex{
		docs:    make([]Document, len(corpus)),
		tf:      tf,
		docSets: make(map[string][]int),
	}
	for i, text := range corpus {
		idx.docs[i] = Document{Index: i, Text: text, Length: lengths[i]}
		idx.totalLen += int64(lengths[i])
		for term := range tf[i] {
			idx.docSets[term] = append(idx.docSets[term], i)
		}
	}
	idx.avgDocLen = float64(idx.totalLen) / float64(len(corpus))
	return idx, nil
}

func (c *CorpusIndex) DocCount() int { return len(c.docs) }

// DocLength returns the token count of document i, or 0 when i is out of
// range.
func (c *CorpusIndex) DocLength(i int) int {
	if i < 0 || i >= len(c.docs) {
		return 0
	}
	return c.docs[i].Length
}

func (c *CorpusIndex) Document(i int) (Document, bool) {
	if i < 0 || i >= len(c.docs) {
		return Document{}, false
	}
	return c.docs[i], true
}

// TermFrequency returns how often term occurs in document i.
func (c *CorpusIndex) TermFrequency(i int, term string) int {
	if i < 0 || i >= len(c.tf) {
		return 0
	}
	return c.tf[i][term]
}

// TermCounts returns a copy of document i's term counts.
func (c *CorpusIndex) TermCounts(i int) TermCounts {
	if i < 0 || i >= len(c.tf) {
		return nil
	}
	out := make(TermCounts, len(c.tf[i]))
	for term, n := range c.tf[i] {
		out[term] = n
	}
	return out
}

func (c *CorpusIndex) AvgDocLength() float64 { return c.avgDocLen }

func (c *CorpusIndex) TotalTokens() int64 { return c.totalLen }

// DocumentFrequency returns the number of documents containing term.
func (c *CorpusIndex) DocumentFrequency(term string) int {
	return len(c.docSets[term])
}

// DocumentFrequencies returns term -> document count for every indexed term.
func (c *CorpusIndex) DocumentFrequencies() map[string]int {
	out := make(map[string]int, len(c.docSets))
	for term, docs := range c.docSets {
		out[term] = len(docs)
	}
	return out
}

func (c *CorpusIndex) TermCount() int { return len(c.docSets) }

// Terms returns every indexed term in lexical order.
func (c *CorpusIndex) Terms() []string {
	terms := make([]string, 0, len(c.docSets))
	for term := range c.docSets {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Snapshot lists every term with the ascending indices of the documents
// containing it, ordered by term.
func (c *CorpusIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(c.docSets))
	for _, term := range c.Terms() {
		docs := c.docSets[term]
		cp := make([]int, len(docs))
		copy(cp, docs)
		entries = append(entries, TermEntry{
			Term:     term,
			DocFreq:  len(docs),
			DocIndex: cp,
		})
	}
	return entries
}
