package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/bm25"
)

// Hit is a ranked document with its text attached for display.
type Hit struct {
	DocIndex int     `json:"doc_index"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

type SearchResult struct {
	Query     string   `json:"query"`
	Terms     []string `json:"terms"`
	TotalDocs int      `json:"total_docs"`
	Matched   int      `json:"matched"`
	Results   []Hit    `json:"results"`
}

// Engine is the subset of *bm25.Engine the executor uses.
type Engine interface {
	QueryTerms(query string) ([]string, error)
	SearchContext(ctx context.Context, query string) ([]bm25.ScoredDoc, error)
	Document(i int) (string, bool)
}

type Executor struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine) *Executor {
	return &Executor{
		engine: engine,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// Terms normalises query with the engine's tokenizer.
func (e *Executor) Terms(query string) ([]string, error) {
	return e.engine.QueryTerms(query)
}

// Execute ranks the whole corpus for query and keeps the first limit hits.
// TotalDocs and Matched describe the full ranking, not the truncated page.
func (e *Executor) Execute(ctx context.Context, query string, limit int) (*SearchResult, error) {
	terms, err := e.engine.QueryTerms(query)
	if err != nil {
		return nil, err
	}
	ranked, err := e.engine.SearchContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	page := ranker.Top(ranked, limit)
	hits := make([]Hit, 0, len(page))
	for _, r := range page {
		text, _ := e.engine.Document(r.DocIndex)
		hits = append(hits, Hit{
			DocIndex: r.DocIndex,
			Score:    r.Score,
			Text:     text,
		})
	}
	result := &SearchResult{
		Query:     query,
		Terms:     terms,
		TotalDocs: len(ranked),
		Matched:   ranker.Matched(ranked),
		Results:   hits,
	}
	e.logger.Debug("query executed",
		"query", query,
		"terms", terms,
		"matched", result.Matched,
		"returned", len(hits),
	)
	return result, nil
}
