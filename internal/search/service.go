package search

import (
	"context"
	"log/slog"

	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
)

// Result is the answer to one search request.
type Result struct {
	Paragraphs  []paragraph.Paragraph `json:"paragraphs"`
	TotalCount  int                   `json:"total_count"`
	SearchTerms []string              `json:"search_terms"`
	Operator    string                `json:"operator"`
}

// Service composes tsqueries and runs them against the paragraph store,
// optionally through the Redis cache.
type Service struct {
	store  paragraph.Store
	cache  *Cache
	logger *slog.Logger
}

// NewService creates a Service. cache may be nil, in which case every query
// goes straight to the store.
func NewService(store paragraph.Store, cache *Cache) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: slog.Default().With("component", "search-service"),
	}
}

// Search validates the request, builds the tsquery, and returns the matching
// paragraphs ranked by relevance. The bool reports whether the result came
// from cache. Zero matches yield an empty result, not an error.
func (s *Service) Search(ctx context.Context, words []string, operator string) (*Result, bool, error) {
	q, err := NewQuery(words, operator)
	if err != nil {
		return nil, false, err
	}

	compute := func() (*Result, error) {
		rows, err := s.store.Search(ctx, q.TSQuery())
		if err != nil {
			return nil, err
		}
		return &Result{
			Paragraphs:  rows,
			TotalCount:  len(rows),
			SearchTerms: q.Terms,
			Operator:    string(q.Operator),
		}, nil
	}

	if s.cache == nil {
		result, err := compute()
		return result, false, err
	}
	return s.cache.GetOrCompute(ctx, q, compute)
}
