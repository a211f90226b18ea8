// Package httpapi contains the HTTP handlers for the service: paragraph
// ingestion, full-text search, word-frequency analysis, and the service
// directory. Handlers translate validated input into calls on the core
// components; all decision logic lives below them.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/keshavjha123/paragraph-analytics/internal/analytics"
	"github.com/keshavjha123/paragraph-analytics/internal/frequency"
	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
	"github.com/keshavjha123/paragraph-analytics/internal/search"
	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
	"github.com/keshavjha123/paragraph-analytics/pkg/logger"
	"github.com/keshavjha123/paragraph-analytics/pkg/metrics"
	"github.com/keshavjha123/paragraph-analytics/pkg/middleware"
)

// Searcher runs validated full-text queries.
type Searcher interface {
	Search(ctx context.Context, words []string, operator string) (*search.Result, bool, error)
}

// Ingestor fetches one paragraph from upstream and stores it.
type Ingestor interface {
	FetchAndStore(ctx context.Context) (*paragraph.Paragraph, error)
}

// SearchRequest is the JSON body accepted by POST /search.
type SearchRequest struct {
	Words    []string `json:"words"`
	Operator string   `json:"operator"`
}

// FetchResponse is returned by POST /fetch on success.
type FetchResponse struct {
	Paragraph *paragraph.Paragraph `json:"paragraph"`
	Message   string               `json:"message"`
}

// DictionaryResponse is returned by GET /dictionary.
type DictionaryResponse struct {
	Words                   []frequency.Entry `json:"words"`
	TotalParagraphsAnalyzed int64             `json:"total_paragraphs_analyzed"`
	Message                 string            `json:"message"`
}

type Handler struct {
	searcher     Searcher
	ingestor     Ingestor
	store        paragraph.Store
	aggregator   *frequency.Aggregator
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

func New(
	searcher Searcher,
	ingestor Ingestor,
	store paragraph.Store,
	aggregator *frequency.Aggregator,
	collector *analytics.Collector,
	m *metrics.Metrics,
	defaultLimit, maxLimit int,
) *Handler {
	return &Handler{
		searcher:     searcher,
		ingestor:     ingestor,
		store:        store,
		aggregator:   aggregator,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       slog.Default().With("component", "http-handler"),
	}
}

// Fetch handles POST /fetch: pull one paragraph from the upstream generator
// and store it. Either exactly one row is added or none.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	p, err := h.ingestor.FetchAndStore(ctx)
	if err != nil {
		log.Error("ingestion failed", "error", err)
		h.countFetch("error")
		h.writeAppError(w, err)
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	log.Info("paragraph ingested", "id", p.ID, "bytes", len(p.Text), "latency_ms", latencyMs)
	h.countFetch("stored")
	if h.collector != nil {
		h.collector.Track(analytics.FetchEvent{
			Type:        analytics.EventFetch,
			ParagraphID: p.ID,
			SizeBytes:   len(p.Text),
			LatencyMs:   latencyMs,
			Timestamp:   time.Now().UTC(),
			RequestID:   middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusCreated, FetchResponse{
		Paragraph: p,
		Message:   "paragraph fetched and stored successfully",
	})
}

// Search handles POST /search: AND/OR keyword matching over the corpus,
// ranked by relevance with deterministic tie-breaking.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, apperrors.ErrInvalidQuery.Error(), "invalid JSON body")
		return
	}

	result, cacheHit, err := h.searcher.Search(ctx, req.Words, req.Operator)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidQuery) {
			log.Error("search failed", "words", req.Words, "error", err)
			h.countSearch("error")
		}
		h.writeAppError(w, err)
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	log.Info("search completed",
		"terms", result.SearchTerms,
		"operator", result.Operator,
		"total_hits", result.TotalCount,
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	if result.TotalCount == 0 {
		h.countSearch("zero_result")
	} else {
		h.countSearch("hit")
	}
	h.observeSearchLatency(cacheHit, time.Since(start).Seconds())
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Type:      analytics.EventSearch,
			Terms:     result.SearchTerms,
			Operator:  result.Operator,
			TotalHits: result.TotalCount,
			CacheHit:  cacheHit,
			LatencyMs: latencyMs,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Dictionary handles GET /dictionary?limit=N: top-N word frequencies across
// the whole corpus with best-effort definition enrichment.
func (h *Handler) Dictionary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, apperrors.ErrInvalidQuery.Error(), "limit must be a positive integer")
			return
		}
		if parsed > h.maxLimit {
			parsed = h.maxLimit
		}
		limit = parsed
	}

	total, err := h.store.Count(ctx)
	if err != nil {
		log.Error("paragraph count failed", "error", err)
		h.writeAppError(w, err)
		return
	}
	if total == 0 {
		h.writeJSON(w, http.StatusOK, DictionaryResponse{
			Words:   []frequency.Entry{},
			Message: "no paragraphs available for analysis",
		})
		return
	}

	texts, err := h.store.AllText(ctx)
	if err != nil {
		log.Error("corpus read failed", "error", err)
		h.writeAppError(w, err)
		return
	}

	entries := h.aggregator.Top(texts, limit)
	h.aggregator.Enrich(ctx, entries)
	h.countLookups(entries)

	log.Info("frequency analysis completed",
		"paragraphs", total,
		"words_returned", len(entries),
		"limit", limit,
	)
	h.writeJSON(w, http.StatusOK, DictionaryResponse{
		Words:                   entries,
		TotalParagraphsAnalyzed: total,
		Message:                 "top " + strconv.Itoa(len(entries)) + " most frequent words with definitions",
	})
}

// Root handles GET /: a small service directory.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"service": "paragraph-analytics",
		"endpoints": map[string]string{
			"fetch":      "POST /fetch - fetch and store a paragraph from the external generator",
			"search":     "POST /search - full-text search over stored paragraphs",
			"dictionary": "GET /dictionary?limit=N - most frequent words with definitions",
			"health":     "GET /health - service and dependency health",
			"stats":      "GET /stats - usage analytics",
		},
	})
}

func (h *Handler) countFetch(outcome string) {
	if h.metrics != nil {
		h.metrics.ParagraphsFetched.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) countSearch(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) observeSearchLatency(cacheHit bool, seconds float64) {
	if h.metrics == nil {
		return
	}
	status := "miss"
	if cacheHit {
		status = "hit"
	}
	h.metrics.SearchLatency.WithLabelValues(status).Observe(seconds)
}

func (h *Handler) countLookups(entries []frequency.Entry) {
	if h.metrics == nil {
		return
	}
	for _, e := range entries {
		if e.Validated != "" {
			h.metrics.DictionaryLookups.WithLabelValues(e.Validated).Inc()
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeAppError maps an error to its stable kind and status code. Internal
// detail stays in the logs; the body carries only the public message.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	kind := apperrors.Kind(err)
	message := "an unexpected error occurred"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	// Store failures carry driver detail in the error chain; keep it out of
	// the response body.
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		message = "database unavailable"
	}
	h.writeError(w, status, kind, message)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, kind, message string) {
	h.writeJSON(w, status, map[string]string{
		"error":   kind,
		"message": message,
	})
}
