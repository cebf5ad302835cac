// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the CourtListener opinion API and returns
// normalized, displayable records. It owns the paginated fetch loop with
// its partial-progress semantics and the court-name resolution cache;
// rendering and export consume its output.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

const dateFmt = "2006-01-02"

// Query holds the caller-supplied search parameters. Pagination cursors
// are never part of a Query; the fetch loop manages those itself.
type Query struct {
	// FreeText is the full-text search term. Required for Search,
	// ignored by Recent.
	FreeText string

	// Court is an optional court slug filter (e.g. "scotus", "ca9").
	Court string

	// DateFrom and DateTo bound the filing date, inclusive. Zero values
	// mean unbounded.
	DateFrom time.Time
	DateTo   time.Time
}

// Search queries the full-text search endpoint for opinions matching the
// query and returns up to limit normalized results. The outcome status
// records whether the fetch completed, was cut by the limit, or stopped
// early on a failure.
func (c *Client) Search(ctx context.Context, query Query, limit int) (Outcome, error) {
	if strings.TrimSpace(query.FreeText) == "" {
		return Outcome{}, fmt.Errorf("empty search query")
	}

	params := url.Values{
		"q":    {query.FreeText},
		"type": {"o"},
	}
	if query.Court != "" {
		params.Set("court", query.Court)
	}
	setDateBounds(params, query)

	return c.fetch(ctx, searchPath, params, limit)
}

// Recent queries the opinion-listing endpoint. Without any explicit date
// bound the listing defaults to opinions filed today; a caller-supplied
// bound on either side suppresses the default.
func (c *Client) Recent(ctx context.Context, query Query, limit int) (Outcome, error) {
	params := url.Values{}
	if query.Court != "" {
		params.Set("court__id", query.Court)
	}
	switch {
	case !query.DateFrom.IsZero():
		params.Set("date_filed__gte", query.DateFrom.Format(dateFmt))
	case query.DateTo.IsZero():
		params.Set("date_filed__gte", c.now().Format(dateFmt))
	}
	if !query.DateTo.IsZero() {
		params.Set("date_filed__lte", query.DateTo.Format(dateFmt))
	}

	return c.fetch(ctx, opinionsPath, params, limit)
}

// setDateBounds adds inclusive date_filed bounds for the search endpoint.
func setDateBounds(params url.Values, query Query) {
	if !query.DateFrom.IsZero() {
		params.Set("date_filed__gte", query.DateFrom.Format(dateFmt))
	}
	if !query.DateTo.IsZero() {
		params.Set("date_filed__lte", query.DateTo.Format(dateFmt))
	}
}

// FormatList writes results as a numbered human-readable list to w.
// Verbose adds docket and citation lines.
func FormatList(results []types.Opinion, query string, verbose bool, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results found for: %q\n", query)
		return
	}

	fmt.Fprintf(w, "\nFound %d result(s) for: %q\n\n", len(results), query)

	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.CaseName)
		fmt.Fprintf(w, "   Court: %s\n", r.Court)
		fmt.Fprintf(w, "   Date: %s\n", r.DateFiled)
		fmt.Fprintf(w, "   %s\n", r.URL)
		if verbose {
			docket := r.DocketNumber
			if docket == "" {
				docket = "N/A"
			}
			citation := r.Citation
			if citation == "" {
				citation = "N/A"
			}
			fmt.Fprintf(w, "   Docket: %s\n", docket)
			fmt.Fprintf(w, "   Citation: %s\n", citation)
		}
		fmt.Fprintln(w)
	}
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.Opinion, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// FormatOutcome writes a one-line fetch status summary to w. Complete
// fetches print nothing; partial outcomes explain why the result set is
// incomplete.
func FormatOutcome(out Outcome, w io.Writer) {
	switch out.Status {
	case StatusPartialLimit:
		fmt.Fprintf(w, "Showing first %d result(s); more are available on the server.\n", len(out.Results))
	case StatusPartialError:
		fmt.Fprintf(w, "Fetch stopped early (%s): showing %d result(s) fetched before the failure.\n",
			describeFailure(out), len(out.Results))
	}
}

func describeFailure(out Outcome) string {
	if out.Failure == FailureHTTPStatus {
		return fmt.Sprintf("HTTP %d", out.StatusCode)
	}
	return string(out.Failure)
}

// ParseLimit validates a caller-supplied result limit before any network
// activity happens.
func ParseLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("result limit must be a positive integer, got %d", limit)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD flag value, returning a zero time for an
// empty string.
func ParseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFmt, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: must be YYYY-MM-DD", flag, value)
	}
	return t, nil
}
