// Package postgres manages the PostgreSQL connection pool and the schema
// for the paragraph store. The search_vector column is generated by the
// database from the paragraph text, so it can never drift out of sync.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keshavjha123/paragraph-analytics/pkg/config"
	_ "github.com/lib/pq"
)

// schema is applied at startup. The tsvector column is STORED generated, and
// the GIN index serves both AND and OR tsquery matching.
const schema = `
CREATE TABLE IF NOT EXISTS paragraphs (
	id            BIGSERIAL PRIMARY KEY,
	text          TEXT NOT NULL CHECK (text <> ''),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	search_vector tsvector GENERATED ALWAYS AS (to_tsvector('english', text)) STORED
);
CREATE INDEX IF NOT EXISTS ix_paragraphs_search_vector
	ON paragraphs USING gin (search_vector);
`

type Client struct {
	DB  *sql.DB
	cfg config.PostgresConfig
}

func New(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db, cfg: cfg}, nil
}

// Migrate creates the paragraphs table and its text-search index if they do
// not exist yet.
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
