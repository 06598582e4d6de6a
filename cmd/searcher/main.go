package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/language"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/bm25"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"corpus", cfg.Corpus.Path,
		"params", cfg.Search.Params(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics.RegisterRuntime(reg)
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(m, cfg.Metrics.Port)
		metricsServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	checker := health.NewChecker()

	engine, digest, err := buildEngine(cfg, m)
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}
	checker.Register("index", health.IndexCheck(func() int { return engine.Stats().Documents }))

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL,
				cache.WithFingerprint(fingerprint(engine.Stats(), digest)),
				cache.WithMetrics(m),
			)
			checker.Register("redis", health.PingCheck(redisClient.Ping, true))
			slog.Info("search cache enabled",
				"addr", cfg.Redis.Addr,
				"ttl", cfg.Redis.CacheTTL,
			)
		}
	}

	h := handler.New(executor.New(engine), engine, queryCache, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	checker.MarkReady()
	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

// buildEngine indexes the configured corpus and returns the engine with the
// digest of the corpus content.
func buildEngine(cfg *config.Config, m *metrics.Metrics) (*bm25.Engine, string, error) {
	docs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, "", err
	}

	opts := []bm25.Option{
		bm25.WithParameters(cfg.Search.K1, cfg.Search.B),
		bm25.WithWorkers(cfg.Search.Workers),
	}
	if cfg.Search.Language != "" {
		lang, err := language.Parse(cfg.Search.Language)
		if err != nil {
			return nil, "", err
		}
		opts = append(opts, bm25.LanguageOptions(lang, cfg.Search.Stopwords, cfg.Search.Stemming)...)
	}

	start := time.Now()
	engine, err := bm25.New(docs, opts...)
	if err != nil {
		return nil, "", err
	}
	stats := engine.Stats()
	m.IndexBuildSeconds.Set(time.Since(start).Seconds())
	m.IndexedDocuments.Set(float64(stats.Documents))
	m.IndexedTerms.Set(float64(stats.Terms))
	return engine, corpus.Digest(docs), nil
}

// fingerprint identifies the ranking configuration and corpus content in
// cache keys.
func fingerprint(s bm25.Stats, corpusDigest string) string {
	return fmt.Sprintf("k1=%g b=%g lang=%s stop=%t stem=%t docs=%d tokens=%d corpus=%s",
		s.K1, s.B, s.Language, s.Stopwords, s.Stemming, s.Documents, s.TotalTokens, corpusDigest)
}
