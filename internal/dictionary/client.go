// Package dictionary is the client for the external word-definition API
// (dictionaryapi.dev shaped). Lookups are best effort: a dead or slow
// collaborator degrades results, it never fails a request.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/keshavjha123/paragraph-analytics/pkg/config"
	"github.com/keshavjha123/paragraph-analytics/pkg/resilience"
)

// Outcome classifies one lookup attempt.
type Outcome string

const (
	// OutcomeFound means the API returned a definition entry.
	OutcomeFound Outcome = "found"
	// OutcomeNotFound means the API answered 404: the word is simply not in
	// the dictionary. This is a conclusive, successful lookup.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeInconclusive means the lookup failed (timeout, error status,
	// malformed body, open circuit) and nothing can be said about the word.
	OutcomeInconclusive Outcome = "inconclusive"
)

// Definition holds the fields extracted from the first dictionary entry.
type Definition struct {
	Definition    string
	Pronunciation string
	PartOfSpeech  string
}

// entry mirrors the relevant parts of the dictionaryapi.dev response body.
type entry struct {
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Client queries the dictionary API through a circuit breaker with a
// per-call timeout.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

func NewClient(cfg config.DictionaryConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		timeout: cfg.Timeout,
		http:    &http.Client{},
		breaker: resilience.NewCircuitBreaker("dictionary", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "dictionary-client"),
	}
}

// Lookup fetches the definition for one word. It never returns an error:
// failure modes collapse into OutcomeInconclusive so callers keep the word.
func (c *Client) Lookup(ctx context.Context, word string) (*Definition, Outcome) {
	var def *Definition
	outcome := OutcomeInconclusive

	err := c.breaker.Execute(func() error {
		return resilience.WithTimeout(ctx, c.timeout, "dictionary lookup", func(ctx context.Context) error {
			var err error
			def, outcome, err = c.fetch(ctx, word)
			return err
		})
	})
	if err != nil {
		c.logger.Warn("dictionary lookup inconclusive", "word", word, "error", err)
		return nil, OutcomeInconclusive
	}
	return def, outcome
}

func (c *Client) fetch(ctx context.Context, word string) (*Definition, Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, OutcomeInconclusive, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, OutcomeInconclusive, fmt.Errorf("calling dictionary api: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, OutcomeNotFound, nil
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, OutcomeInconclusive, fmt.Errorf("dictionary api status %d for %q", resp.StatusCode, word)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, OutcomeInconclusive, fmt.Errorf("decoding dictionary response: %w", err)
	}
	if len(entries) == 0 {
		return nil, OutcomeNotFound, nil
	}
	return extract(entries[0]), OutcomeFound, nil
}

// extract pulls the first phonetic text and the first meaning's part of
// speech and definition, matching what the response surface reports.
func extract(e entry) *Definition {
	var d Definition
	for _, p := range e.Phonetics {
		if p.Text != "" {
			d.Pronunciation = p.Text
			break
		}
	}
	if len(e.Meanings) > 0 {
		d.PartOfSpeech = e.Meanings[0].PartOfSpeech
		if defs := e.Meanings[0].Definitions; len(defs) > 0 {
			d.Definition = defs[0].Definition
		}
	}
	return &d
}
