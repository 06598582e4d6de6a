package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/bm25"
	apperrors "github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/bm25-relevance/pkg/metrics"
)

type SearchExecutor interface {
	Terms(query string) ([]string, error)
	Execute(ctx context.Context, query string, limit int) (*executor.SearchResult, error)
}

// StatsProvider reports the shape of the served index.
type StatsProvider interface {
	Stats() bm25.Stats
}

type Handler struct {
	executor     SearchExecutor
	stats        StatsProvider
	cache        *cache.QueryCache
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New wires a handler. queryCache and m may be nil.
func New(exec SearchExecutor, stats StatsProvider, queryCache *cache.QueryCache, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		executor:     exec,
		stats:        stats,
		cache:        queryCache,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.recordQuery("invalid")
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.recordQuery("invalid")
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, h.maxResults)
	}

	terms, err := h.executor.Terms(query)
	if err != nil {
		h.recordQuery("invalid")
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	var result *executor.SearchResult
	cacheStatus := "disabled"
	if h.cache != nil {
		var hit bool
		result, hit, err = h.cache.GetOrCompute(ctx, terms, limit, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, query, limit)
		})
		cacheStatus = "miss"
		if hit {
			cacheStatus = "hit"
		}
	} else {
		result, err = h.executor.Execute(ctx, query, limit)
	}
	if err != nil {
		log.Error("search execution failed", "query", query, "error", err)
		h.recordQuery("error")
		status := apperrors.HTTPStatusCode(err)
		switch status {
		case http.StatusBadRequest:
			h.writeError(w, status, err.Error())
		case http.StatusServiceUnavailable:
			h.writeError(w, status, "search timed out")
		default:
			h.writeError(w, status, "search failed")
		}
		return
	}

	// The result may be shared with concurrent callers of the same cache key,
	// and cached pages were stored under another spelling of the same terms.
	page := *result
	page.Query = query
	page.Terms = terms

	elapsed := time.Since(start)
	if h.metrics != nil {
		h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
		h.metrics.SearchMatchedDocs.Observe(float64(page.Matched))
		h.metrics.QueryTermsCount.Observe(float64(len(terms)))
	}
	if page.Matched == 0 {
		h.recordQuery("zero_result")
	} else {
		h.recordQuery("match")
	}

	log.Info("search completed",
		"query", query,
		"terms", len(terms),
		"matched", page.Matched,
		"returned", len(page.Results),
		"cache", cacheStatus,
		"latency_ms", elapsed.Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, &page)
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.stats.Stats())
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) recordQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
