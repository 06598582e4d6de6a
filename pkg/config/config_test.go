package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1.5, cfg.Search.K1)
	assert.Equal(t, 0.75, cfg.Search.B)
	assert.Equal(t, "en", cfg.Search.Language)
	assert.True(t, cfg.Search.Stopwords)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  writeTimeout: 5s
search:
  k1: 1.2
  b: 0.5
  language: german
  stemming: true
  defaultLimit: 5
corpus:
  path: /tmp/docs.txt
redis:
  enabled: true
  cacheTTL: 2m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 1.2, cfg.Search.K1)
	assert.Equal(t, 0.5, cfg.Search.B)
	assert.Equal(t, "german", cfg.Search.Language)
	assert.True(t, cfg.Search.Stemming)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxResults)
	assert.Equal(t, "/tmp/docs.txt", cfg.Corpus.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BM25_SEARCH_K1", "2.0")
	t.Setenv("BM25_SEARCH_B", "not-a-number")
	t.Setenv("BM25_SEARCH_LANGUAGE", "fr")
	t.Setenv("BM25_SEARCH_STEMMING", "true")
	t.Setenv("BM25_CORPUS_PATH", "/data/fr.txt")
	t.Setenv("BM25_REDIS_ENABLED", "1")
	t.Setenv("BM25_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Search.K1)
	assert.Equal(t, 0.75, cfg.Search.B)
	assert.Equal(t, "fr", cfg.Search.Language)
	assert.True(t, cfg.Search.Stemming)
	assert.Equal(t, "/data/fr.txt", cfg.Corpus.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "search: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "search:\n  k1: 0\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	_, err = Load(writeConfig(t, "search:\n  b: -1\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	_, err = Load(writeConfig(t, "search:\n  language: klingon\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Load(writeConfig(t, "search:\n  defaultLimit: 500\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestValidate_LanguageRequiredForNormalisation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Search.Language = ""
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidInput)

	cfg.Search.Stopwords = false
	assert.NoError(t, cfg.Validate())
}
