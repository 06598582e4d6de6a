package bm25

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/language"
	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

var sentences = []string{
	"I love programming",
	"Java is my favorite programming language",
	"I enjoy writing code in Java",
	"Java is another popular programming language",
	"I find programming fascinating",
	"I love Java",
	"I prefer Java over Python",
}

func mustEngine(t *testing.T, corpus []string, opts ...Option) *Engine {
	t.Helper()
	eng, err := New(corpus, opts...)
	require.NoError(t, err)
	require.NotNil(t, eng)
	return eng
}

func indices(results []ScoredDoc) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.DocIndex
	}
	return out
}

func scoreOf(results []ScoredDoc, doc int) float64 {
	for _, r := range results {
		if r.DocIndex == doc {
			return r.Score
		}
	}
	return -1
}

func TestSearch_ILoveJava(t *testing.T) {
	eng := mustEngine(t, sentences, WithLanguageStopwords(language.English))

	results, err := eng.Search("I love java")
	require.NoError(t, err)
	require.Len(t, results, len(sentences))

	first, last := results[0], results[len(results)-1]
	assert.Equal(t, 5, first.DocIndex)
	assert.Greater(t, first.Score, 1.8)
	assert.Equal(t, 4, last.DocIndex)
	assert.Equal(t, 0.0, last.Score)
}

func TestSearch_ILoveJava_WithoutStopwords(t *testing.T) {
	eng := mustEngine(t, sentences)

	results, err := eng.Search("I love java")
	require.NoError(t, err)
	require.Len(t, results, len(sentences))

	assert.Equal(t, 5, results[0].DocIndex)
	assert.Greater(t, results[0].Score, 1.8)
	// "i" is an ordinary term here and document 4 contains it.
	assert.Greater(t, scoreOf(results, 4), 0.0)
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0, "doc %d", r.DocIndex)
	}
}

func TestSearch_PythonProgramming(t *testing.T) {
	cases := map[string][]Option{
		"plain":     nil,
		"stopwords": {WithLanguageStopwords(language.English)},
		"language":  {WithLanguage(language.English)},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			eng := mustEngine(t, sentences, opts...)

			results, err := eng.Search("Python programming")
			require.NoError(t, err)
			require.Len(t, results, len(sentences))

			first, last := results[0], results[len(results)-1]
			assert.Equal(t, 6, first.DocIndex)
			assert.Greater(t, first.Score, 1.5)
			assert.Equal(t, 5, last.DocIndex)
			assert.Equal(t, 0.0, last.Score)
			// Documents 2 and 5 both score 0; the lower index ranks first.
			assert.Equal(t, []int{2, 5}, indices(results[len(results)-2:]))
		})
	}
}

func TestSearch_ResultProperties(t *testing.T) {
	eng := mustEngine(t, sentences)

	for _, q := range []string{"java", "programming language", "python rust", "code code code", "nothing matches"} {
		t.Run(q, func(t *testing.T) {
			results, err := eng.Search(q)
			require.NoError(t, err)
			require.Len(t, results, len(sentences))

			seen := make(map[int]bool)
			for i, r := range results {
				assert.False(t, seen[r.DocIndex], "doc %d listed twice", r.DocIndex)
				seen[r.DocIndex] = true
				if i == 0 {
					continue
				}
				prev := results[i-1]
				assert.GreaterOrEqual(t, prev.Score, r.Score)
				if prev.Score == r.Score {
					assert.Less(t, prev.DocIndex, r.DocIndex)
				}
			}
		})
	}
}

func TestSearch_NonMatchingDocumentsScoreZero(t *testing.T) {
	eng := mustEngine(t, sentences)

	results, err := eng.Search("python")
	require.NoError(t, err)
	for _, r := range results {
		if r.DocIndex == 6 {
			assert.Greater(t, r.Score, 0.0)
			continue
		}
		assert.Equal(t, 0.0, r.Score, "doc %d", r.DocIndex)
	}

	results, err = eng.Search("haskell")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, indices(results))
}

func TestSearch_DuplicateTermsDoNotDoubleCount(t *testing.T) {
	eng := mustEngine(t, sentences)

	single, err := eng.Search("java")
	require.NoError(t, err)
	double, err := eng.Search("java java")
	require.NoError(t, err)
	assert.Equal(t, single, double)

	ab, err := eng.Search("love java")
	require.NoError(t, err)
	ba, err := eng.Search("java love java")
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	eng := mustEngine(t, sentences)

	lower, err := eng.Search("java")
	require.NoError(t, err)
	upper, err := eng.Search("JAVA")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestSearch_InvalidQuery(t *testing.T) {
	eng := mustEngine(t, sentences, WithLanguageStopwords(language.English))

	for _, q := range []string{"", "   ", "\t\n", "the of and"} {
		_, err := eng.Search(q)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuery, "query %q", q)
		assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCorpus)

	_, err = New([]string{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCorpus)

	eng, err := New(sentences, WithParameters(0, 0.75))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
	assert.Nil(t, eng)

	_, err = New(sentences, WithParameters(1.2, -0.1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	_, err = New(sentences, WithLanguage(language.Language(77)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
}

func TestNew_DefaultParameters(t *testing.T) {
	eng := mustEngine(t, sentences)

	assert.Equal(t, Params{K1: 1.5, B: 0.75}, eng.Params())

	custom := mustEngine(t, sentences, WithParameters(1.2, 0))
	assert.Equal(t, Params{K1: 1.2, B: 0}, custom.Params())
}

func TestNew_EmptyDocumentsAreIndexed(t *testing.T) {
	eng := mustEngine(t, []string{"", "go is fun", "   "})

	results, err := eng.Search("go")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, indices(results))
	assert.Equal(t, 0.0, results[1].Score)
}

func TestNew_AllDocumentsEmptyAfterStopwords(t *testing.T) {
	eng := mustEngine(t, []string{"the", "a an"}, WithLanguageStopwords(language.English))

	results, err := eng.Search("gopher")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indices(results))
	assert.Equal(t, 0.0, results[0].Score)
	assert.Zero(t, eng.Stats().AvgDocLength)
}

func TestWithLanguage_StemsQueryAndCorpusAlike(t *testing.T) {
	eng := mustEngine(t, sentences, WithLanguage(language.English))

	results, err := eng.Search("programs")
	require.NoError(t, err)
	for _, doc := range []int{0, 1, 3, 4} {
		assert.Greater(t, scoreOf(results, doc), 0.0, "doc %d mentions programming", doc)
	}
	assert.Equal(t, 0.0, scoreOf(results, 5))

	terms, err := eng.QueryTerms("Running runs")
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, terms)

	stats := eng.Stats()
	assert.Equal(t, "en", stats.Language)
	assert.True(t, stats.Stopwords)
	assert.True(t, stats.Stemming)
}

func TestWithLanguage_ExplicitCollaboratorsWin(t *testing.T) {
	noStem := tokenizer.StemmerFunc(func(term string) string { return term })
	eng := mustEngine(t, sentences, WithStemmer(noStem), WithLanguage(language.English))

	terms, err := eng.QueryTerms("I am running")
	require.NoError(t, err)
	assert.Equal(t, []string{"running"}, terms)
}

func TestScoreMatchesSearch(t *testing.T) {
	eng := mustEngine(t, sentences)

	results, err := eng.Search("I love java")
	require.NoError(t, err)
	for _, r := range results {
		s, err := eng.Score(r.DocIndex, "I love java")
		require.NoError(t, err)
		assert.Equal(t, r.Score, s)
	}

	_, err = eng.Score(7, "java")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestIDFAndStats(t *testing.T) {
	eng := mustEngine(t, sentences)

	w, ok := eng.IDF("love")
	require.True(t, ok)
	assert.Greater(t, w, 1.0)
	_, ok = eng.IDF("rust")
	assert.False(t, ok)

	stats := eng.Stats()
	assert.Equal(t, 7, stats.Documents)
	assert.EqualValues(t, 33, stats.TotalTokens)
	assert.InDelta(t, 33.0/7.0, stats.AvgDocLength, 1e-12)
	assert.Empty(t, stats.Language)

	text, ok := eng.Document(5)
	require.True(t, ok)
	assert.Equal(t, "I love Java", text)
}

func TestTop(t *testing.T) {
	eng := mustEngine(t, sentences)

	top, err := eng.Top("java", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 5, top[0].DocIndex)

	_, err = eng.Top("", 2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
}

func TestSearch_ConcurrentCallsAgree(t *testing.T) {
	docs := make([]string, 2000)
	for i := range docs {
		docs[i] = fmt.Sprintf("doc %d about topic%d and topic%d with java", i, i%13, i%29)
	}
	eng := mustEngine(t, docs, WithWorkers(4))
	queries := []string{"topic3 java", "topic7", "topic11 topic12", "java java"}

	want := make(map[string][]ScoredDoc, len(queries))
	for _, q := range queries {
		r, err := eng.Search(q)
		require.NoError(t, err)
		want[q] = r
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			got, err := eng.SearchContext(context.Background(), q)
			if err != nil {
				errs <- err
				return
			}
			if len(got) != len(want[q]) {
				errs <- fmt.Errorf("query %q: got %d results", q, len(got))
				return
			}
			for j := range got {
				if got[j] != want[q][j] {
					errs <- fmt.Errorf("query %q: result %d differs", q, j)
					return
				}
			}
		}(queries[i%len(queries)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSearchContext_Cancelled(t *testing.T) {
	eng := mustEngine(t, sentences)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.SearchContext(ctx, "java")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestSearchContext_DeadlineIsTimeout(t *testing.T) {
	eng := mustEngine(t, sentences)

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	_, err := eng.SearchContext(ctx, "java")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatusCode(err))
}

func TestLanguageOptions(t *testing.T) {
	cases := []struct {
		name      string
		stopwords bool
		stemming  bool
		language  string
	}{
		{"none", false, false, ""},
		{"stopwords", true, false, "en"},
		{"stemming", false, true, "en"},
		{"both", true, true, "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eng := mustEngine(t, sentences, LanguageOptions(language.English, tc.stopwords, tc.stemming)...)
			stats := eng.Stats()
			assert.Equal(t, tc.stopwords, stats.Stopwords)
			assert.Equal(t, tc.stemming, stats.Stemming)
			assert.Equal(t, tc.language, stats.Language)
		})
	}

	_, err := New(sentences, WithLanguageStemmer(language.Language(99)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
}
