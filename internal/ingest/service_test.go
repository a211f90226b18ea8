package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
)

type fakeSource struct {
	text string
	err  error
}

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	return f.text, f.err
}

type fakeStore struct {
	rows    []paragraph.Paragraph
	inserts int
	err     error
}

func (f *fakeStore) Insert(ctx context.Context, text string) (*paragraph.Paragraph, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserts++
	p := paragraph.Paragraph{ID: int64(len(f.rows) + 1), Text: text, CreatedAt: time.Now()}
	f.rows = append(f.rows, p)
	return &p, nil
}

func (f *fakeStore) Search(ctx context.Context, tsquery string) ([]paragraph.Paragraph, error) {
	return nil, nil
}

func (f *fakeStore) AllText(ctx context.Context) ([]string, error) {
	texts := make([]string, len(f.rows))
	for i, p := range f.rows {
		texts[i] = p.Text
	}
	return texts, nil
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestFetchAndStoreInsertsExactlyOneRow(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInvalidator{}
	svc := NewService(&fakeSource{text: "generated paragraph"}, store, inv)

	p, err := svc.FetchAndStore(context.Background())
	if err != nil {
		t.Fatalf("FetchAndStore: %v", err)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want exactly 1", store.inserts)
	}
	if p.Text != "generated paragraph" {
		t.Errorf("Text = %q", p.Text)
	}
	if inv.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", inv.calls)
	}
}

func TestFetchFailureInsertsNothing(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(&fakeSource{err: apperrors.New(apperrors.ErrUpstreamFetch, 502, "timeout")}, store, nil)

	_, err := svc.FetchAndStore(context.Background())
	if !errors.Is(err, apperrors.ErrUpstreamFetch) {
		t.Fatalf("error = %v, want ErrUpstreamFetch", err)
	}
	if store.inserts != 0 {
		t.Errorf("inserts = %d, want 0 after upstream failure", store.inserts)
	}
}

func TestStoreFailureIsSurfaced(t *testing.T) {
	store := &fakeStore{err: apperrors.New(apperrors.ErrStoreUnavailable, 503, "pool exhausted")}
	svc := NewService(&fakeSource{text: "generated paragraph"}, store, nil)

	_, err := svc.FetchAndStore(context.Background())
	if !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
}

func TestInvalidationFailureDoesNotFailIngestion(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInvalidator{err: errors.New("redis down")}
	svc := NewService(&fakeSource{text: "generated paragraph"}, store, inv)

	if _, err := svc.FetchAndStore(context.Background()); err != nil {
		t.Errorf("FetchAndStore = %v, want success despite cache failure", err)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
}
