package search

import (
	"context"
	"errors"
	"testing"

	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
)

type stubStore struct {
	rows       []paragraph.Paragraph
	err        error
	gotTSQuery string
	calls      int
}

func (s *stubStore) Insert(ctx context.Context, text string) (*paragraph.Paragraph, error) {
	return nil, nil
}

func (s *stubStore) Search(ctx context.Context, tsquery string) ([]paragraph.Paragraph, error) {
	s.calls++
	s.gotTSQuery = tsquery
	return s.rows, s.err
}

func (s *stubStore) AllText(ctx context.Context) ([]string, error) { return nil, nil }

func (s *stubStore) Count(ctx context.Context) (int64, error) { return 0, nil }

func TestServiceSearchNoCache(t *testing.T) {
	store := &stubStore{rows: []paragraph.Paragraph{
		{ID: 3, Text: "the cat and the dog"},
		{ID: 9, Text: "a dog alone"},
	}}
	svc := NewService(store, nil)

	result, cacheHit, err := svc.Search(context.Background(), []string{"Cat", "dog"}, "and")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if cacheHit {
		t.Error("cacheHit = true without a cache")
	}
	if store.gotTSQuery != "cat & dog" {
		t.Errorf("tsquery = %q, want %q", store.gotTSQuery, "cat & dog")
	}
	if result.TotalCount != 2 || len(result.Paragraphs) != 2 {
		t.Errorf("result = %+v, want 2 paragraphs", result)
	}
	if result.Operator != "and" {
		t.Errorf("Operator = %q, want and", result.Operator)
	}
}

func TestServiceSearchZeroMatches(t *testing.T) {
	svc := NewService(&stubStore{rows: []paragraph.Paragraph{}}, nil)

	result, _, err := svc.Search(context.Background(), []string{"unicorn"}, "or")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", result.TotalCount)
	}
}

func TestServiceSearchInvalidInputSkipsStore(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	_, _, err := svc.Search(context.Background(), nil, "or")
	if !errors.Is(err, apperrors.ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times for invalid input", store.calls)
	}
}

func TestServiceSearchStoreFailure(t *testing.T) {
	store := &stubStore{err: apperrors.New(apperrors.ErrStoreUnavailable, 503, "connection refused")}
	svc := NewService(store, nil)

	_, _, err := svc.Search(context.Background(), []string{"cat"}, "or")
	if !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}
