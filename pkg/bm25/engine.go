// Package bm25 ranks a fixed corpus of short documents against free-text
// queries with the Okapi BM25 relevance function.
//
// An Engine is built once from the corpus and is read-only afterwards, so a
// single Engine serves any number of concurrent Search calls:
//
//	eng, err := bm25.New(docs, bm25.WithLanguage(language.English))
//	if err != nil {
//		return err
//	}
//	results, err := eng.Search("love java")
//
// Every document appears in the result, including those that match no query
// term (score 0). Results are ordered by descending score; equal scores are
// ordered by ascending document index.
package bm25

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/language"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

// ScoredDoc is one ranked document.
type ScoredDoc = ranker.ScoredDoc

// Params are the BM25 k1 and b parameters.
type Params = ranker.Params

// DefaultParams returns k1 = 1.5, b = 0.75.
func DefaultParams() Params { return ranker.DefaultParams() }

type Engine struct {
	tok     *tokenizer.Tokenizer
	index   *index.CorpusIndex
	idf     ranker.IDFTable
	scorer  *ranker.Scorer
	workers int
	lang    *language.Language
	logger  *slog.Logger
}

type options struct {
	params    Params
	stopwords tokenizer.StopwordFilter
	stemmer   tokenizer.Stemmer
	lang      *language.Language
	label     *language.Language
	workers   int
	logger    *slog.Logger
}

type Option func(*options)

// WithParameters overrides the default k1 = 1.5, b = 0.75.
func WithParameters(k1, b float64) Option {
	return func(o *options) {
		o.params = Params{K1: k1, B: b}
	}
}

// WithStopwords excludes the filter's words at indexing and query time.
func WithStopwords(f tokenizer.StopwordFilter) Option {
	return func(o *options) {
		o.stopwords = f
	}
}

// WithStemmer reduces every token to its root form at indexing and query
// time.
func WithStemmer(s tokenizer.Stemmer) Option {
	return func(o *options) {
		o.stemmer = s
	}
}

// WithLanguage installs lang's stopword list and Snowball stemmer. Explicit
// WithStopwords or WithStemmer options take precedence regardless of order.
func WithLanguage(lang language.Language) Option {
	return func(o *options) {
		l := lang
		o.lang = &l
		o.label = &l
	}
}

// WithLanguageStopwords installs only lang's stopword list.
func WithLanguageStopwords(lang language.Language) Option {
	return func(o *options) {
		l := lang
		o.stopwords = language.Stopwords(lang)
		o.label = &l
	}
}

// WithLanguageStemmer installs only lang's Snowball stemmer.
func WithLanguageStemmer(lang language.Language) Option {
	return func(o *options) {
		l := lang
		o.stemmer = language.StemmerFor(lang)
		o.label = &l
	}
}

// LanguageOptions selects the language options matching the stopword and
// stemming switches.
func LanguageOptions(lang language.Language, stopwords, stemming bool) []Option {
	switch {
	case stopwords && stemming:
		return []Option{WithLanguage(lang)}
	case stopwords:
		return []Option{WithLanguageStopwords(lang)}
	case stemming:
		return []Option{WithLanguageStemmer(lang)}
	}
	return nil
}

// WithWorkers bounds the goroutines used for building and for each search.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New indexes corpus and computes the IDF table. It fails with
// errors.ErrInvalidCorpus for an empty corpus and errors.ErrInvalidParameters
// for k1 <= 0 or b < 0. No Engine is returned on error.
func New(corpus []string, opts ...Option) (*Engine, error) {
	o := options{params: ranker.DefaultParams()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	logger := o.logger.With("component", "bm25-engine")

	if len(corpus) == 0 {
		return nil, apperrors.Validation(apperrors.ErrInvalidCorpus, "corpus must contain at least one document")
	}
	if err := o.params.Validate(); err != nil {
		return nil, err
	}
	if o.label != nil && !o.label.Valid() {
		return nil, apperrors.Validation(apperrors.ErrInvalidParameters, "unsupported language %s", *o.label)
	}

	tok := tokenizer.New(tokenizerOptions(o)...)

	start := time.Now()
	idx, err := index.Build(corpus, tok, index.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("building corpus index: %w", err)
	}
	idf := ranker.NewIDFTable(idx.DocCount(), idx.DocumentFrequencies())

	e := &Engine{
		tok:     tok,
		index:   idx,
		idf:     idf,
		scorer:  ranker.NewScorer(idx, idf, o.params),
		workers: o.workers,
		lang:    o.label,
		logger:  logger,
	}
	logger.Info("corpus indexed",
		"documents", idx.DocCount(),
		"terms", idx.TermCount(),
		"avg_doc_length", idx.AvgDocLength(),
		"k1", o.params.K1,
		"b", o.params.B,
		"stopwords", tok.HasStopwords(),
		"stemming", tok.HasStemmer(),
		"duration", time.Since(start),
	)
	return e, nil
}

func tokenizerOptions(o options) []tokenizer.Option {
	stopwords, stemmer := o.stopwords, o.stemmer
	if o.lang != nil {
		if stopwords == nil {
			stopwords = language.Stopwords(*o.lang)
		}
		if stemmer == nil {
			stemmer = language.StemmerFor(*o.lang)
		}
	}
	var opts []tokenizer.Option
	if stopwords != nil {
		opts = append(opts, tokenizer.WithStopwords(stopwords))
	}
	if stemmer != nil {
		opts = append(opts, tokenizer.WithStemmer(stemmer))
	}
	return opts
}

// Search ranks every document against query. It fails with
// errors.ErrInvalidQuery when the query is empty or normalises to no terms.
func (e *Engine) Search(query string) ([]ScoredDoc, error) {
	return e.SearchContext(context.Background(), query)
}

// SearchContext is Search with cancellation checked between scoring chunks.
// A cancelled or expired ctx fails with errors.ErrTimeout wrapping ctx's error.
func (e *Engine) SearchContext(ctx context.Context, query string) ([]ScoredDoc, error) {
	terms, err := e.QueryTerms(query)
	if err != nil {
		return nil, err
	}
	results, err := ranker.Rank(ctx, e.scorer, terms, ranker.RankOptions{Workers: e.workers})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: ranking %d documents: %w", apperrors.ErrTimeout, e.index.DocCount(), err)
		}
		return nil, fmt.Errorf("ranking %d documents: %w", e.index.DocCount(), err)
	}
	e.logger.Debug("query ranked",
		"query", query,
		"terms", terms,
		"matched", ranker.Matched(results),
	)
	return results, nil
}

// Top returns the limit best documents for query; limit <= 0 returns all.
func (e *Engine) Top(query string, limit int) ([]ScoredDoc, error) {
	results, err := e.Search(query)
	if err != nil {
		return nil, err
	}
	return ranker.Top(results, limit), nil
}

// QueryTerms returns the distinct normalised terms of query, in first
// occurrence order, using the same tokenizer as the index.
func (e *Engine) QueryTerms(query string) ([]string, error) {
	terms := e.tok.Distinct(query)
	if len(terms) == 0 {
		return nil, apperrors.Validation(apperrors.ErrInvalidQuery, "query %q contains no searchable terms", query)
	}
	return terms, nil
}

// Score returns the BM25 score of a single document for query.
func (e *Engine) Score(doc int, query string) (float64, error) {
	if doc < 0 || doc >= e.index.DocCount() {
		return 0, apperrors.Validation(apperrors.ErrInvalidInput, "document index %d out of range [0, %d)", doc, e.index.DocCount())
	}
	terms, err := e.QueryTerms(query)
	if err != nil {
		return 0, err
	}
	return e.scorer.DocumentScore(doc, terms), nil
}

// IDF returns the weight of a normalised term and whether it is indexed.
func (e *Engine) IDF(term string) (float64, bool) {
	return e.idf.Weight(term)
}

// Document returns the raw text of document i.
func (e *Engine) Document(i int) (string, bool) {
	doc, ok := e.index.Document(i)
	return doc.Text, ok
}

func (e *Engine) Params() Params { return e.scorer.Params() }

// Stats summarises the built index.
type Stats struct {
	Documents    int     `json:"documents"`
	Terms        int     `json:"terms"`
	TotalTokens  int64   `json:"total_tokens"`
	AvgDocLength float64 `json:"avg_doc_length"`
	K1           float64 `json:"k1"`
	B            float64 `json:"b"`
	Language     string  `json:"language,omitempty"`
	Stopwords    bool    `json:"stopwords"`
	Stemming     bool    `json:"stemming"`
}

func (e *Engine) Stats() Stats {
	p := e.scorer.Params()
	s := Stats{
		Documents:    e.index.DocCount(),
		Terms:        e.index.TermCount(),
		TotalTokens:  e.index.TotalTokens(),
		AvgDocLength: e.index.AvgDocLength(),
		K1:           p.K1,
		B:            p.B,
		Stopwords:    e.tok.HasStopwords(),
		Stemming:     e.tok.HasStemmer(),
	}
	if e.lang != nil {
		s.Language = e.lang.Code()
	}
	return s
}
