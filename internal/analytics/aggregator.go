package analytics

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keshavjha123/paragraph-analytics/pkg/kafka"
)

// AggregatedStats is the rolled-up view served at /stats.
type AggregatedStats struct {
	TotalSearches      int64        `json:"total_searches"`
	TotalFetches       int64        `json:"total_fetches"`
	CacheHits          int64        `json:"cache_hits"`
	CacheMisses        int64        `json:"cache_misses"`
	ZeroResultCount    int64        `json:"zero_result_count"`
	AvgLatencyMs       float64      `json:"avg_latency_ms"`
	P50LatencyMs       int64        `json:"p50_latency_ms"`
	P95LatencyMs       int64        `json:"p95_latency_ms"`
	P99LatencyMs       int64        `json:"p99_latency_ms"`
	TopQueries         []QueryCount `json:"top_queries"`
	SearchesPerMinute  float64      `json:"searches_per_minute"`
	BytesIngestedTotal int64        `json:"bytes_ingested_total"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator consumes analytics events from Kafka and maintains in-memory
// tallies. State is process-local; restarting the service resets it.
type Aggregator struct {
	mu            sync.RWMutex
	totalSearches atomic.Int64
	totalFetches  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	zeroResults   atomic.Int64
	bytesIngested atomic.Int64
	latencies     []int64
	queryCounts   map[string]int64
	startTime     time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:   make([]int64, 0, 10000),
		queryCounts: make(map[string]int64),
		startTime:   time.Now(),
		logger:      slog.Default().With("component", "analytics-aggregator"),
	}
}

// Attach wires the Kafka consumer the aggregator reads from.
func (a *Aggregator) Attach(consumer *kafka.Consumer) {
	a.consumer = consumer
}

func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns the kafka.MessageHandler that feeds the aggregator.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[SearchEvent](value)
		if err == nil && event.Type == EventSearch {
			agg.recordSearchEvent(event)
			return nil
		}
		fetchEvent, fetchErr := kafka.DecodeJSON[FetchEvent](value)
		if fetchErr == nil && fetchEvent.Type == EventFetch {
			agg.recordFetchEvent(fetchEvent)
			return nil
		}
		agg.logger.Error("failed to decode analytics event", "error", err)
		return nil
	}
}

func (a *Aggregator) recordSearchEvent(event SearchEvent) {
	a.totalSearches.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.TotalHits == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.queryCounts[event.Operator+":"+strings.Join(event.Terms, ",")]++
	a.mu.Unlock()
}

func (a *Aggregator) recordFetchEvent(event FetchEvent) {
	a.totalFetches.Add(1)
	a.bytesIngested.Add(int64(event.SizeBytes))
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:      a.totalSearches.Load(),
		TotalFetches:       a.totalFetches.Load(),
		CacheHits:          a.cacheHits.Load(),
		CacheMisses:        a.cacheMisses.Load(),
		ZeroResultCount:    a.zeroResults.Load(),
		BytesIngestedTotal: a.bytesIngested.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = sorted[len(sorted)*50/100]
		stats.P95LatencyMs = sorted[len(sorted)*95/100]
		stats.P99LatencyMs = sorted[len(sorted)*99/100]
	}

	stats.TopQueries = topN(a.queryCounts, 10)

	minutes := time.Since(a.startTime).Minutes()
	if minutes > 0 {
		stats.SearchesPerMinute = float64(stats.TotalSearches) / minutes
	}
	return stats
}

func topN(counts map[string]int64, n int) []QueryCount {
	out := make([]QueryCount, 0, len(counts))
	for q, c := range counts {
		out = append(out, QueryCount{Query: q, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
