// Package ingest fetches generated paragraphs from the external text API and
// persists them. The fetch either yields one non-empty paragraph or fails;
// nothing is ever half-stored.
package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/keshavjha123/paragraph-analytics/pkg/config"
	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
)

// maxBodySize caps how much of the upstream response is read.
const maxBodySize = 1 << 20

// Fetcher retrieves one block of generated text per call.
type Fetcher struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	return &Fetcher{
		url:    cfg.URL,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: slog.Default().With("component", "paragraph-fetcher"),
	}
}

// Fetch GETs the paragraph source and returns the trimmed body. Timeouts,
// non-2xx statuses, and empty bodies all map to ErrUpstreamFetch.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", apperrors.Newf(apperrors.ErrUpstreamFetch, 502, "building fetch request: %v", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Error("upstream fetch failed", "url", f.url, "error", err)
		return "", apperrors.Newf(apperrors.ErrUpstreamFetch, 502, "fetching paragraph: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		f.logger.Error("upstream returned error status", "url", f.url, "status", resp.StatusCode)
		return "", apperrors.Newf(apperrors.ErrUpstreamFetch, 502, "paragraph source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", apperrors.Newf(apperrors.ErrUpstreamFetch, 502, "reading paragraph body: %v", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", apperrors.New(apperrors.ErrUpstreamFetch, 502, "empty response from paragraph source")
	}

	f.logger.Info("paragraph fetched",
		"url", f.url,
		"bytes", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
