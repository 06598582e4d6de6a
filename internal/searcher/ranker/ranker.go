package ranker

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of documents worth a goroutine of its own.
const minChunk = 512

type ScoredDoc struct {
	DocIndex int     `json:"doc_index"`
	Score    float64 `json:"score"`
}

// RankOptions tunes how a ranking pass is split across goroutines.
type RankOptions struct {
	Workers int
}

// Rank scores every document in the scorer's corpus against terms and returns
// them by descending score, equal scores by ascending document index. The
// output contains one entry per document, including those that match no
// term.
func Rank(ctx context.Context, s *Scorer, terms []string, opts RankOptions) ([]ScoredDoc, error) {
	n := s.corpus.DocCount()
	unique := distinct(terms)
	result := make([]ScoredDoc, n)

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for doc := lo; doc < hi; doc++ {
				result[doc] = ScoredDoc{
					DocIndex: doc,
					Score:    s.documentScore(doc, unique),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Sort(result)
	return result, nil
}

// Sort orders docs by descending score, then ascending document index.
func Sort(docs []ScoredDoc) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].DocIndex < docs[j].DocIndex
	})
}

// Top returns at most limit leading entries. A non-positive limit keeps all.
func Top(docs []ScoredDoc, limit int) []ScoredDoc {
	if limit > 0 && len(docs) > limit {
		return docs[:limit]
	}
	return docs
}

// Matched counts the entries with a non-zero score.
func Matched(docs []ScoredDoc) int {
	n := 0
	for _, d := range docs {
		if d.Score != 0 {
			n++
		}
	}
	return n
}
