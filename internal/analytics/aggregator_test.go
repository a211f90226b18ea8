package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func handle(t *testing.T, agg *Aggregator, event any) {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}
	if err := HandleEvent(agg)(context.Background(), nil, payload); err != nil {
		t.Fatalf("handling event: %v", err)
	}
}

func TestAggregatorSearchTallies(t *testing.T) {
	agg := NewAggregator()

	handle(t, agg, SearchEvent{
		Type: EventSearch, Terms: []string{"cat"}, Operator: "or",
		TotalHits: 3, CacheHit: false, LatencyMs: 10, Timestamp: time.Now().UTC(),
	})
	handle(t, agg, SearchEvent{
		Type: EventSearch, Terms: []string{"cat"}, Operator: "or",
		TotalHits: 3, CacheHit: true, LatencyMs: 2, Timestamp: time.Now().UTC(),
	})
	handle(t, agg, SearchEvent{
		Type: EventSearch, Terms: []string{"dog", "bird"}, Operator: "and",
		TotalHits: 0, CacheHit: false, LatencyMs: 30, Timestamp: time.Now().UTC(),
	})

	stats := agg.Stats()
	if stats.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", stats.TotalSearches)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 1/2", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if want := float64(10+2+30) / 3; stats.AvgLatencyMs != want {
		t.Errorf("AvgLatencyMs = %v, want %v", stats.AvgLatencyMs, want)
	}
	if len(stats.TopQueries) == 0 || stats.TopQueries[0].Query != "or:cat" || stats.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %+v, want or:cat with count 2 first", stats.TopQueries)
	}
}

func TestAggregatorFetchTallies(t *testing.T) {
	agg := NewAggregator()

	handle(t, agg, FetchEvent{Type: EventFetch, ParagraphID: 1, SizeBytes: 120, LatencyMs: 40, Timestamp: time.Now().UTC()})
	handle(t, agg, FetchEvent{Type: EventFetch, ParagraphID: 2, SizeBytes: 80, LatencyMs: 35, Timestamp: time.Now().UTC()})

	stats := agg.Stats()
	if stats.TotalFetches != 2 {
		t.Errorf("TotalFetches = %d, want 2", stats.TotalFetches)
	}
	if stats.BytesIngestedTotal != 200 {
		t.Errorf("BytesIngestedTotal = %d, want 200", stats.BytesIngestedTotal)
	}
	if stats.TotalSearches != 0 {
		t.Errorf("TotalSearches = %d, want 0", stats.TotalSearches)
	}
}

func TestAggregatorMalformedEventIgnored(t *testing.T) {
	agg := NewAggregator()

	if err := HandleEvent(agg)(context.Background(), nil, []byte(`{not json`)); err != nil {
		t.Fatalf("malformed event should not error: %v", err)
	}
	stats := agg.Stats()
	if stats.TotalSearches != 0 || stats.TotalFetches != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestAggregatorLatencyPercentiles(t *testing.T) {
	agg := NewAggregator()
	for i := int64(1); i <= 100; i++ {
		handle(t, agg, SearchEvent{
			Type: EventSearch, Terms: []string{"x"}, Operator: "or",
			TotalHits: 1, LatencyMs: i, Timestamp: time.Now().UTC(),
		})
	}

	stats := agg.Stats()
	if stats.P50LatencyMs != 51 {
		t.Errorf("P50LatencyMs = %d, want 51", stats.P50LatencyMs)
	}
	if stats.P95LatencyMs != 96 {
		t.Errorf("P95LatencyMs = %d, want 96", stats.P95LatencyMs)
	}
	if stats.P99LatencyMs != 100 {
		t.Errorf("P99LatencyMs = %d, want 100", stats.P99LatencyMs)
	}
}
