package frequency

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/keshavjha123/paragraph-analytics/internal/dictionary"
)

func entryWords(entries []Entry) []string {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}

func TestTopCountsAcrossParagraphs(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"run run jump"}, 2)
	want := []Entry{
		{Word: "run", Count: 2},
		{Word: "jump", Count: 1},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Top = %+v, want %+v", entries, want)
	}
}

func TestTopEmptyCorpus(t *testing.T) {
	agg := New(nil, nil, 0)
	if entries := agg.Top(nil, 10); len(entries) != 0 {
		t.Errorf("Top(nil) = %+v, want empty", entries)
	}
}

func TestTopExcludesStopWords(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"the cat and the dog and the bird"}, 10)
	for _, e := range entries {
		if e.Word == "the" || e.Word == "and" {
			t.Errorf("stop-word %q leaked into results", e.Word)
		}
	}
	got := entryWords(entries)
	if !reflect.DeepEqual(got, []string{"bird", "cat", "dog"}) {
		t.Errorf("words = %v, want [bird cat dog]", got)
	}
}

func TestTopConfiguredStopWords(t *testing.T) {
	agg := New([]string{"cat"}, nil, 0)
	entries := agg.Top([]string{"cat dog cat"}, 10)
	got := entryWords(entries)
	if !reflect.DeepEqual(got, []string{"dog"}) {
		t.Errorf("words = %v, want [dog]; configured list should replace the default", got)
	}
}

func TestTopTieBreakAlphabetical(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"zebra apple zebra apple mango"}, 10)
	want := []string{"apple", "zebra", "mango"}
	if got := entryWords(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("words = %v, want %v", got, want)
	}
}

func TestTopTruncationKeepsPrefix(t *testing.T) {
	agg := New(nil, nil, 0)
	texts := []string{"apple apple apple banana banana cherry"}
	full := agg.Top(texts, 10)
	truncated := agg.Top(texts, 2)
	if !reflect.DeepEqual(truncated, full[:2]) {
		t.Errorf("truncated = %+v, want prefix of %+v", truncated, full)
	}
}

func TestTokenizeSplitsOnNonLetters(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"half-baked ideas, half-baked plans!"}, 10)
	got := entryWords(entries)
	want := []string{"baked", "half", "ideas", "plans"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("words = %v, want %v", got, want)
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"go is ok but golang rocks"}, 10)
	for _, e := range entries {
		if len(e.Word) < minWordLen {
			t.Errorf("token %q shorter than %d survived", e.Word, minWordLen)
		}
	}
}

// lookupFunc adapts a function to the DefinitionLookup interface.
type lookupFunc func(ctx context.Context, word string) (*dictionary.Definition, dictionary.Outcome)

func (f lookupFunc) Lookup(ctx context.Context, word string) (*dictionary.Definition, dictionary.Outcome) {
	return f(ctx, word)
}

func TestEnrichKeepsInconclusiveWords(t *testing.T) {
	agg := New(nil, lookupFunc(func(ctx context.Context, word string) (*dictionary.Definition, dictionary.Outcome) {
		if word == "banana" {
			return nil, dictionary.OutcomeInconclusive
		}
		return &dictionary.Definition{Definition: "a " + word, PartOfSpeech: "noun"}, dictionary.OutcomeFound
	}), 2)

	entries := agg.Top([]string{"apple apple banana cherry"}, 10)
	agg.Enrich(context.Background(), entries)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3; a failed lookup must not drop words", len(entries))
	}
	byWord := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byWord[e.Word] = e
	}
	if byWord["banana"].Validated != string(dictionary.OutcomeInconclusive) {
		t.Errorf("banana.Validated = %q, want inconclusive", byWord["banana"].Validated)
	}
	if byWord["banana"].Definition != nil {
		t.Errorf("banana.Definition = %v, want nil", *byWord["banana"].Definition)
	}
	if byWord["apple"].Validated != string(dictionary.OutcomeFound) {
		t.Errorf("apple.Validated = %q, want found", byWord["apple"].Validated)
	}
	if byWord["apple"].Definition == nil || *byWord["apple"].Definition != "a apple" {
		t.Errorf("apple.Definition = %v, want \"a apple\"", byWord["apple"].Definition)
	}
}

func TestEnrichWithoutLookup(t *testing.T) {
	agg := New(nil, nil, 0)
	entries := agg.Top([]string{"apple banana"}, 10)
	agg.Enrich(context.Background(), entries)
	for _, e := range entries {
		if e.Validated != "" {
			t.Errorf("%s.Validated = %q, want empty without a lookup", e.Word, e.Validated)
		}
	}
}

func TestEnrichPropagatesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawCancelled bool
	agg := New(nil, lookupFunc(func(ctx context.Context, word string) (*dictionary.Definition, dictionary.Outcome) {
		if errors.Is(ctx.Err(), context.Canceled) {
			sawCancelled = true
		}
		return nil, dictionary.OutcomeInconclusive
	}), 1)

	entries := agg.Top([]string{"apple"}, 10)
	agg.Enrich(ctx, entries)
	if !sawCancelled {
		t.Error("lookup did not observe the cancelled request context")
	}
}
