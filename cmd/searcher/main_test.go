package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/metrics"
)

func writeCorpus(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &config.Config{
		Search: config.SearchConfig{K1: 1.5, B: 0.75, Language: "en", Stopwords: true},
		Corpus: config.CorpusConfig{Path: path},
	}
}

func TestFingerprint_ChangesWithCorpusContent(t *testing.T) {
	m := metrics.New(nil)

	a, digestA, err := buildEngine(writeCorpus(t, "I love java\nPython rocks\n"), m)
	require.NoError(t, err)
	b, digestB, err := buildEngine(writeCorpus(t, "I love rust\nPython rocks\n"), m)
	require.NoError(t, err)
	again, digestAgain, err := buildEngine(writeCorpus(t, "I love java\n\nPython rocks\n"), m)
	require.NoError(t, err)

	require.Equal(t, a.Stats(), b.Stats())
	assert.NotEqual(t, fingerprint(a.Stats(), digestA), fingerprint(b.Stats(), digestB))
	assert.Equal(t, fingerprint(a.Stats(), digestA), fingerprint(again.Stats(), digestAgain))
}

func TestBuildEngine_RejectsUnknownLanguage(t *testing.T) {
	cfg := writeCorpus(t, "I love java\n")
	cfg.Search.Language = "klingon"

	_, _, err := buildEngine(cfg, metrics.New(nil))
	assert.Error(t, err)
}
