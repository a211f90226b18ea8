package ingest

import (
	"context"
	"log/slog"

	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
)

// TextSource produces one block of generated text per call.
type TextSource interface {
	Fetch(ctx context.Context) (string, error)
}

// CacheInvalidator drops cached search results after the corpus changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service orchestrates fetch-then-insert. The two steps are sequential and
// the insert only happens after a successful fetch, so an upstream failure
// leaves the store untouched.
type Service struct {
	source TextSource
	store  paragraph.Store
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewService creates a Service. cache may be nil when Redis is unavailable.
func NewService(source TextSource, store paragraph.Store, cache CacheInvalidator) *Service {
	return &Service{
		source: source,
		store:  store,
		cache:  cache,
		logger: slog.Default().With("component", "ingest-service"),
	}
}

// FetchAndStore fetches one paragraph and inserts exactly one row, returning
// the stored paragraph. Cache invalidation failures are logged, not
// surfaced: the row is already committed and the cache entries expire on
// their own TTL.
func (s *Service) FetchAndStore(ctx context.Context) (*paragraph.Paragraph, error) {
	text, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Insert(ctx, text)
	if err != nil {
		return nil, err
	}
	s.logger.Info("paragraph stored", "id", p.ID, "bytes", len(p.Text))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("search cache invalidation failed", "error", err)
		}
	}
	return p, nil
}
