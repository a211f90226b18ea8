// Package search turns a keyword list plus a boolean operator into a
// PostgreSQL tsquery. Lexeme normalisation and ranking stay in the
// database; this package owns validation and boolean composition.
package search

import (
	"strings"
	"unicode"

	apperrors "github.com/keshavjha123/paragraph-analytics/pkg/errors"
)

// Operator selects how per-word conditions are combined.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// maxTerms bounds the number of keywords accepted in one query.
const maxTerms = 50

// Query is a validated, normalised search request. Terms are lower-cased,
// stripped of non-alphanumeric runes, and deduplicated preserving first
// occurrence, so equal queries always compose the same tsquery.
type Query struct {
	Terms    []string
	Operator Operator
}

// NewQuery validates the raw words and operator and returns a normalised
// Query. Violations are reported before any I/O happens.
func NewQuery(words []string, operator string) (*Query, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(operator)))
	if op != OperatorAnd && op != OperatorOr {
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "operator must be %q or %q", OperatorAnd, OperatorOr)
	}
	if len(words) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidQuery, 400, "at least one search word must be provided")
	}
	if len(words) > maxTerms {
		return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "at most %d search words are allowed", maxTerms)
	}

	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if strings.TrimSpace(word) == "" {
			return nil, apperrors.New(apperrors.ErrInvalidQuery, 400, "search words must not be empty")
		}
		term := sanitizeTerm(word)
		if term == "" {
			return nil, apperrors.Newf(apperrors.ErrInvalidQuery, 400, "search word %q contains no searchable characters", word)
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	return &Query{Terms: terms, Operator: op}, nil
}

// TSQuery composes the terms into a to_tsquery input string, joined with &
// for AND and | for OR. Terms contain only alphanumeric runes, so the result
// is always a syntactically valid tsquery.
func (q *Query) TSQuery() string {
	sep := " & "
	if q.Operator == OperatorOr {
		sep = " | "
	}
	return strings.Join(q.Terms, sep)
}

// sanitizeTerm lower-cases a word and drops every rune that is not a letter
// or digit. tsquery operator characters can never leak into the query.
func sanitizeTerm(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(word)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
