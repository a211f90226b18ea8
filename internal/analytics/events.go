// Package analytics tracks service usage. A Collector buffers events and
// publishes them to Kafka; an Aggregator consumes the topic and serves
// rolled-up stats. Both are optional: the service runs fine without Kafka.
package analytics

import "time"

type EventType string

const (
	EventSearch EventType = "search"
	EventFetch  EventType = "fetch"
)

// SearchEvent is emitted for every completed search request.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Terms     []string  `json:"terms"`
	Operator  string    `json:"operator"`
	TotalHits int       `json:"total_hits"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// FetchEvent is emitted for every successful paragraph ingestion.
type FetchEvent struct {
	Type        EventType `json:"type"`
	ParagraphID int64     `json:"paragraph_id"`
	SizeBytes   int       `json:"size_bytes"`
	LatencyMs   int64     `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id"`
}
