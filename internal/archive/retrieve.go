// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over case names and
	// citations.
	Query string

	// Court filters by a substring of the resolved court name.
	Court string

	// DateFrom and DateTo bound date_filed, inclusive (YYYY-MM-DD).
	DateFrom string
	DateTo   string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Court == "" && q.DateFrom == "" && q.DateTo == ""
}

// ArchivedOpinion is a stored opinion with its archival metadata.
type ArchivedOpinion struct {
	types.Opinion `yaml:",inline"`

	// Query is the search that fetched this opinion.
	Query string `json:"query" yaml:"query"`

	// FetchedAt is the RFC 3339 time of the fetch that stored it.
	FetchedAt string `json:"fetched_at" yaml:"fetched_at"`
}

// Retrieve queries the archive with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries are sorted by filing date, newest first.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]ArchivedOpinion, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT o.url, o.case_name, o.court, o.date_filed, o.docket_number,
				o.citation, o.query, o.fetched_at
			FROM opinions_fts
			JOIN opinions o ON o.rowid = opinions_fts.rowid
			WHERE opinions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT o.url, o.case_name, o.court, o.date_filed, o.docket_number,
				o.citation, o.query, o.fetched_at
			FROM opinions o
			WHERE 1=1`)
	}

	if opts.Court != "" {
		qb.WriteString(` AND o.court LIKE ?`)
		args = append(args, "%"+opts.Court+"%")
	}

	if opts.DateFrom != "" {
		qb.WriteString(` AND o.date_filed >= ?`)
		args = append(args, opts.DateFrom)
	}
	if opts.DateTo != "" {
		qb.WriteString(` AND o.date_filed <= ?`)
		args = append(args, opts.DateTo)
	}

	if useFTS {
		qb.WriteString(` ORDER BY opinions_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY o.date_filed DESC, o.case_name`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []ArchivedOpinion
	for rows.Next() {
		var a ArchivedOpinion
		if err := rows.Scan(
			&a.URL, &a.CaseName, &a.Court, &a.DateFiled,
			&a.DocketNumber, &a.Citation, &a.Query, &a.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, a)
	}

	return results, rows.Err()
}
