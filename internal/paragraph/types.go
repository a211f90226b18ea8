// Package paragraph defines the persisted paragraph model and the store
// interface the HTTP surface and analysis components depend on.
package paragraph

import (
	"context"
	"time"
)

// Paragraph is one stored block of generated text. Rows are append-only:
// nothing in the service updates or deletes them.
type Paragraph struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence capability the service needs. The tsquery passed
// to Search is already composed and sanitised by the search predicate
// builder.
type Store interface {
	Insert(ctx context.Context, text string) (*Paragraph, error)
	Search(ctx context.Context, tsquery string) ([]Paragraph, error)
	AllText(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
