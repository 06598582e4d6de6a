// Package config loads and validates service configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Search, Corpus, Redis, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/language"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// SearchConfig holds the BM25 parameters, text normalisation choices and
// result limits.
type SearchConfig struct {
	K1           float64 `yaml:"k1"`
	B            float64 `yaml:"b"`
	Language     string  `yaml:"language"`
	Stopwords    bool    `yaml:"stopwords"`
	Stemming     bool    `yaml:"stemming"`
	DefaultLimit int     `yaml:"defaultLimit"`
	MaxResults   int     `yaml:"maxResults"`
	Workers      int     `yaml:"workers"`
}

// Params returns the BM25 parameters.
func (s SearchConfig) Params() ranker.Params {
	return ranker.Params{K1: s.K1, B: s.B}
}

// CorpusConfig points at the corpus file, one document per line.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine or server cannot run with.
func (c *Config) Validate() error {
	if err := c.Search.Params().Validate(); err != nil {
		return err
	}
	if c.Search.Language != "" {
		if _, err := language.Parse(c.Search.Language); err != nil {
			return err
		}
	} else if c.Search.Stopwords || c.Search.Stemming {
		return apperrors.Validation(apperrors.ErrInvalidInput, "search.language is required when stopwords or stemming is enabled")
	}
	if c.Search.DefaultLimit < 1 || c.Search.MaxResults < 1 {
		return apperrors.Validation(apperrors.ErrInvalidInput, "search limits must be positive (defaultLimit=%d, maxResults=%d)",
			c.Search.DefaultLimit, c.Search.MaxResults)
	}
	if c.Search.DefaultLimit > c.Search.MaxResults {
		return apperrors.Validation(apperrors.ErrInvalidInput, "search.defaultLimit %d exceeds search.maxResults %d",
			c.Search.DefaultLimit, c.Search.MaxResults)
	}
	return nil
}

// defaultConfig returns a Config with defaults suitable for local
// development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Search: SearchConfig{
			K1:           ranker.DefaultK1,
			B:            ranker.DefaultB,
			Language:     "en",
			Stopwords:    true,
			Stemming:     false,
			DefaultLimit: 10,
			MaxResults:   100,
		},
		Corpus: CorpusConfig{
			Path: "data/corpus.txt",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads BM25_* environment variables and overrides the
// corresponding config fields. Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BM25_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BM25_SEARCH_K1"); v != "" {
		if k1, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.K1 = k1
		}
	}
	if v := os.Getenv("BM25_SEARCH_B"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.B = b
		}
	}
	if v := os.Getenv("BM25_SEARCH_LANGUAGE"); v != "" {
		cfg.Search.Language = v
	}
	if v := os.Getenv("BM25_SEARCH_STOPWORDS"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Search.Stopwords = on
		}
	}
	if v := os.Getenv("BM25_SEARCH_STEMMING"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Search.Stemming = on
		}
	}
	if v := os.Getenv("BM25_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("BM25_REDIS_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = on
		}
	}
	if v := os.Getenv("BM25_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("BM25_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("BM25_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BM25_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("BM25_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
