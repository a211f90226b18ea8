// Package frequency tallies word occurrences across the paragraph corpus.
// Tokenization, stop-word filtering, and deterministic ranking live here;
// definition enrichment is delegated to the dictionary collaborator and is
// strictly best effort.
package frequency

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/keshavjha123/paragraph-analytics/internal/dictionary"
	"golang.org/x/sync/errgroup"
)

// minWordLen drops trivially short tokens before counting.
const minWordLen = 3

// Entry is one ranked word with its occurrence count and, when enrichment
// ran, the definition fields from the dictionary collaborator. Validated is
// "found", "not_found", or "inconclusive"; the latter never removes a word.
type Entry struct {
	Word          string  `json:"word"`
	Count         int     `json:"count"`
	Definition    *string `json:"definition"`
	Pronunciation *string `json:"pronunciation"`
	PartOfSpeech  *string `json:"part_of_speech"`
	Validated     string  `json:"validated,omitempty"`
}

// DefinitionLookup is the dictionary collaborator capability the aggregator
// needs. Tests substitute a fake.
type DefinitionLookup interface {
	Lookup(ctx context.Context, word string) (*dictionary.Definition, dictionary.Outcome)
}

// Aggregator computes top-N word frequencies over paragraph texts.
type Aggregator struct {
	stopWords   map[string]struct{}
	lookup      DefinitionLookup
	concurrency int
	logger      *slog.Logger
}

// New creates an Aggregator. stopWords may be nil to use the default list;
// lookup may be nil to skip definition enrichment.
func New(stopWords []string, lookup DefinitionLookup, lookupConcurrency int) *Aggregator {
	if lookupConcurrency <= 0 {
		lookupConcurrency = 4
	}
	return &Aggregator{
		stopWords:   stopWordSet(stopWords),
		lookup:      lookup,
		concurrency: lookupConcurrency,
		logger:      slog.Default().With("component", "frequency-aggregator"),
	}
}

// Top tokenizes every text, counts surviving tokens, and returns at most
// limit entries ordered by descending count with alphabetical tie-breaking.
func (a *Aggregator) Top(texts []string, limit int) []Entry {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range a.tokenize(text) {
			counts[word]++
		}
	}

	entries := make([]Entry, 0, len(counts))
	for word, count := range counts {
		entries = append(entries, Entry{Word: word, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Enrich looks up definitions for each entry with bounded concurrency. A
// failed or timed-out lookup marks the entry inconclusive and moves on; the
// collaborator being down never fails the aggregation.
func (a *Aggregator) Enrich(ctx context.Context, entries []Entry) {
	if a.lookup == nil {
		return
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range entries {
		i := i
		g.Go(func() error {
			def, outcome := a.lookup.Lookup(ctx, entries[i].Word)
			entries[i].Validated = string(outcome)
			if def != nil {
				if def.Definition != "" {
					entries[i].Definition = &def.Definition
				}
				if def.Pronunciation != "" {
					entries[i].Pronunciation = &def.Pronunciation
				}
				if def.PartOfSpeech != "" {
					entries[i].PartOfSpeech = &def.PartOfSpeech
				}
			}
			return nil
		})
	}
	g.Wait()
}

// tokenize lower-cases text, splits on runs of non-letter runes, and drops
// short tokens and stop-words.
func (a *Aggregator) tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minWordLen {
			continue
		}
		if _, stop := a.stopWords[f]; stop {
			continue
		}
		words = append(words, f)
	}
	return words
}
