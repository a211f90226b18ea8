package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/keshavjha123/paragraph-analytics/pkg/config"
)

const sampleEntry = `[{
	"word": "cat",
	"phonetics": [{"audio": ""}, {"text": "/kat/"}],
	"meanings": [{
		"partOfSpeech": "noun",
		"definitions": [{"definition": "a small domesticated mammal"}]
	}]
}]`

func newTestClient(serverURL string, timeout time.Duration) *Client {
	return NewClient(config.DictionaryConfig{
		URL:     serverURL,
		Timeout: timeout,
	})
}

func TestLookupFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cat" {
			t.Errorf("path = %q, want /cat", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleEntry))
	}))
	defer server.Close()

	def, outcome := newTestClient(server.URL, time.Second).Lookup(context.Background(), "cat")
	if outcome != OutcomeFound {
		t.Fatalf("outcome = %q, want found", outcome)
	}
	if def.Definition != "a small domesticated mammal" {
		t.Errorf("Definition = %q", def.Definition)
	}
	if def.Pronunciation != "/kat/" {
		t.Errorf("Pronunciation = %q, want /kat/ (first phonetic with text)", def.Pronunciation)
	}
	if def.PartOfSpeech != "noun" {
		t.Errorf("PartOfSpeech = %q, want noun", def.PartOfSpeech)
	}
}

func TestLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"No Definitions Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	def, outcome := newTestClient(server.URL, time.Second).Lookup(context.Background(), "xyzzy")
	if outcome != OutcomeNotFound {
		t.Errorf("outcome = %q, want not_found", outcome)
	}
	if def != nil {
		t.Errorf("def = %+v, want nil", def)
	}
}

func TestLookupServerErrorIsInconclusive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, outcome := newTestClient(server.URL, time.Second).Lookup(context.Background(), "cat")
	if outcome != OutcomeInconclusive {
		t.Errorf("outcome = %q, want inconclusive", outcome)
	}
}

func TestLookupMalformedBodyIsInconclusive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	_, outcome := newTestClient(server.URL, time.Second).Lookup(context.Background(), "cat")
	if outcome != OutcomeInconclusive {
		t.Errorf("outcome = %q, want inconclusive", outcome)
	}
}

func TestLookupTimeoutIsInconclusive(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	start := time.Now()
	_, outcome := newTestClient(server.URL, 50*time.Millisecond).Lookup(context.Background(), "cat")
	if outcome != OutcomeInconclusive {
		t.Errorf("outcome = %q, want inconclusive", outcome)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("lookup took %v, timeout did not apply", elapsed)
	}
}

func TestLookupEmptyArrayIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, outcome := newTestClient(server.URL, time.Second).Lookup(context.Background(), "cat")
	if outcome != OutcomeNotFound {
		t.Errorf("outcome = %q, want not_found", outcome)
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	// Default threshold is 5 consecutive failures; the calls after that
	// must be rejected by the breaker without reaching the server.
	for i := 0; i < 8; i++ {
		if _, outcome := client.Lookup(context.Background(), "cat"); outcome != OutcomeInconclusive {
			t.Fatalf("call %d: outcome = %q, want inconclusive", i, outcome)
		}
	}
	if calls != 5 {
		t.Errorf("server saw %d calls, want 5 (breaker should fail fast afterwards)", calls)
	}
}
