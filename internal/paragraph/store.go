package paragraph

import (
	"context"
	"database/sql"
	"log/slog"

	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
	"github.com/keshavjha123/paragraph-analytics/pkg/postgres"
)

// searchSQL matches paragraphs against a composed tsquery and orders by
// descending rank. Equal ranks fall back to ascending id so repeated queries
// over an unchanged corpus return an identical ordering.
const searchSQL = `
SELECT p.id, p.text, p.created_at
FROM paragraphs p, to_tsquery('english', $1) AS q
WHERE p.search_vector @@ q
ORDER BY ts_rank(p.search_vector, q) DESC, p.id ASC`

// PostgresStore implements Store over the shared connection pool. The
// search_vector column is database-generated, so Insert only writes text.
type PostgresStore struct {
	db     *postgres.Client
	logger *slog.Logger
}

func NewPostgresStore(db *postgres.Client) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: slog.Default().With("component", "paragraph-store"),
	}
}

func (s *PostgresStore) Insert(ctx context.Context, text string) (*Paragraph, error) {
	var p Paragraph
	err := s.db.DB.QueryRowContext(ctx,
		`INSERT INTO paragraphs (text) VALUES ($1) RETURNING id, text, created_at`,
		text,
	).Scan(&p.ID, &p.Text, &p.CreatedAt)
	if err != nil {
		s.logger.Error("insert failed", "error", err)
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "inserting paragraph: %v", err)
	}
	return &p, nil
}

func (s *PostgresStore) Search(ctx context.Context, tsquery string) ([]Paragraph, error) {
	rows, err := s.db.DB.QueryContext(ctx, searchSQL, tsquery)
	if err != nil {
		s.logger.Error("search query failed", "tsquery", tsquery, "error", err)
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "searching paragraphs: %v", err)
	}
	defer rows.Close()

	results := make([]Paragraph, 0)
	for rows.Next() {
		var p Paragraph
		if err := rows.Scan(&p.ID, &p.Text, &p.CreatedAt); err != nil {
			return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "scanning search row: %v", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "iterating search rows: %v", err)
	}
	return results, nil
}

func (s *PostgresStore) AllText(ctx context.Context) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx, `SELECT text FROM paragraphs`)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "reading corpus: %v", err)
	}
	defer rows.Close()

	texts := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "scanning text row: %v", err)
		}
		texts = append(texts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "iterating text rows: %v", err)
	}
	return texts, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.DB.QueryRowContext(ctx, `SELECT count(id) FROM paragraphs`).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, apperrors.Newf(apperrors.ErrStoreUnavailable, 503, "counting paragraphs: %v", err)
	}
	return n, nil
}
