package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Fetcher.URL != "http://metaphorpsum.com/paragraphs/1/50" {
		t.Errorf("Fetcher.URL = %q", cfg.Fetcher.URL)
	}
	if cfg.Analysis.DefaultLimit != 10 || cfg.Analysis.MaxLimit != 100 {
		t.Errorf("Analysis limits = %d/%d, want 10/100", cfg.Analysis.DefaultLimit, cfg.Analysis.MaxLimit)
	}
	if cfg.Dictionary.LookupConcurrency != 4 {
		t.Errorf("Dictionary.LookupConcurrency = %d, want 4", cfg.Dictionary.LookupConcurrency)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
postgres:
  host: db.internal
  database: corpus
fetcher:
  timeout: 5s
analysis:
  stopWords: ["foo", "bar"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Database != "corpus" {
		t.Errorf("Postgres = %+v", cfg.Postgres)
	}
	if cfg.Fetcher.Timeout != 5*time.Second {
		t.Errorf("Fetcher.Timeout = %v, want 5s", cfg.Fetcher.Timeout)
	}
	if len(cfg.Analysis.StopWords) != 2 || cfg.Analysis.StopWords[0] != "foo" {
		t.Errorf("Analysis.StopWords = %v", cfg.Analysis.StopWords)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want default 5432", cfg.Postgres.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PA_SERVER_PORT", "7070")
	t.Setenv("PA_POSTGRES_HOST", "pg.example.com")
	t.Setenv("PA_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PA_FETCHER_TIMEOUT", "2s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "pg.example.com" {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Fetcher.Timeout != 2*time.Second {
		t.Errorf("Fetcher.Timeout = %v, want 2s", cfg.Fetcher.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("err = %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "pw",
		Database: "corpus", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=u password=pw dbname=corpus sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
