// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// Collection endpoint paths under the API base.
const (
	searchPath   = "/search/"
	opinionsPath = "/opinions/"
)

const (
	defaultBaseURL  = "https://www.courtlistener.com/api/rest/v4"
	defaultSiteURL  = "https://www.courtlistener.com"
	defaultPageSize = 20
	defaultTimeout  = 15 * time.Second
)

// FailureKind classifies why a fetch stopped early.
type FailureKind string

const (
	// FailureConnection is a network-level failure reaching the API.
	FailureConnection FailureKind = "connection"

	// FailureTimeout is a request that exceeded the configured timeout.
	FailureTimeout FailureKind = "timeout"

	// FailureHTTPStatus is a non-success HTTP response; the outcome
	// carries the status code.
	FailureHTTPStatus FailureKind = "http_status"

	// FailureRequest covers any other request or decode failure.
	FailureRequest FailureKind = "request"
)

// Status is the terminal state of a fetch.
type Status string

const (
	// StatusComplete means the server collection was exhausted within
	// the requested limit.
	StatusComplete Status = "complete"

	// StatusPartialLimit means the fetch stopped because the limit or
	// the page budget was reached while the server had more results.
	StatusPartialLimit Status = "partial_limit"

	// StatusPartialError means a page request failed; the outcome holds
	// whatever was accumulated before the failure.
	StatusPartialError Status = "partial_error"
)

// Outcome is the result of a paginated fetch: the accumulated raw records
// in server order, and a terminal status. On StatusPartialError the
// Failure, StatusCode, and Err fields describe the stopping failure; the
// results are still valid and displayable, just incomplete.
type Outcome struct {
	Results    []RawOpinion
	Status     Status
	Failure    FailureKind
	StatusCode int
	Err        error
}

// Partial reports whether the fetch terminated before exhausting the
// server collection.
func (o Outcome) Partial() bool {
	return o.Status != StatusComplete
}

// ProgressFunc receives advisory per-page progress: the page just
// fetched, the planned page count, and the running result count. It has
// no effect on control flow.
type ProgressFunc func(page, plannedPages, fetched int)

// Client fetches opinions from the CourtListener API and resolves court
// names through a shared cache. A Client is safe for use from multiple
// goroutines; each Fetch invocation paginates sequentially on its own.
type Client struct {
	// HTTP is the underlying HTTP client. Replaceable for tests.
	HTTP *http.Client

	// Logger emits structured diagnostics. Defaults to a disabled logger.
	Logger zerolog.Logger

	// Progress, when set, is called after every fetched page.
	Progress ProgressFunc

	cfg    types.SearchConfig
	courts *CourtCache

	// now is stubbed in tests for the filed-today default.
	now func() time.Time
}

// NewClient creates a Client with defaults applied. A nil cache gets a
// fresh empty one; sharing a cache between clients shares resolved court
// names.
func NewClient(cfg types.SearchConfig, courts *CourtCache) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = defaultSiteURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "caselaw-engine/0.1 (github.com/pdiddy/caselaw-engine)"
	}
	if courts == nil {
		courts = NewCourtCache()
	}
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Logger: zerolog.Nop(),
		cfg:    cfg,
		courts: courts,
		now:    time.Now,
	}
}

// page is one decoded page of a collection response.
type page struct {
	Next    string       `json:"next"`
	Results []RawOpinion `json:"results"`
}

// fetch runs the paginated fetch loop against one collection endpoint.
//
// The first request carries the query parameters and the fixed page
// size; continuation requests use the server-supplied next URL verbatim,
// which already encodes them. The loop stops at the first of: limit
// reached, collection exhausted, page budget ceil(limit/pageSize) spent,
// or a page failure. Failures return the accumulated results with
// StatusPartialError instead of an error; only a non-positive limit is
// rejected up front.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, limit int) (Outcome, error) {
	if limit <= 0 {
		return Outcome{}, fmt.Errorf("result limit must be positive, got %d", limit)
	}

	pageSize := c.cfg.PageSize
	params.Set("page_size", strconv.Itoa(pageSize))
	budget := (limit + pageSize - 1) / pageSize
	nextURL := c.cfg.BaseURL + path + "?" + params.Encode()

	var out Outcome
	for pageNum := 1; ; pageNum++ {
		p, failure := c.fetchPage(ctx, nextURL)
		if failure != nil {
			out.Status = StatusPartialError
			out.Failure = failure.kind
			out.StatusCode = failure.statusCode
			out.Err = failure.err
			c.Logger.Warn().
				Str("endpoint", path).
				Int("page", pageNum).
				Str("failure", string(failure.kind)).
				Int("fetched", len(out.Results)).
				Err(failure.err).
				Msg("page fetch failed, returning partial results")
			break
		}

		// The page budget assumes the configured page size. A server
		// that returns shorter pages can make the budget under-fetch;
		// surface that rather than mask it.
		if len(p.Results) > 0 && len(p.Results) < pageSize && p.Next != "" {
			c.Logger.Warn().
				Int("page_size", pageSize).
				Int("observed", len(p.Results)).
				Msg("server page shorter than configured page size; page budget may under-fetch")
		}

		out.Results = append(out.Results, p.Results...)
		c.Logger.Debug().
			Str("endpoint", path).
			Int("page", pageNum).
			Int("fetched", len(out.Results)).
			Bool("has_next", p.Next != "").
			Msg("page fetched")
		if c.Progress != nil {
			c.Progress(pageNum, budget, len(out.Results))
		}

		if len(out.Results) >= limit {
			if p.Next != "" || len(out.Results) > limit {
				out.Status = StatusPartialLimit
			} else {
				out.Status = StatusComplete
			}
			break
		}
		if p.Next == "" {
			out.Status = StatusComplete
			break
		}
		if pageNum >= budget {
			out.Status = StatusPartialLimit
			break
		}
		nextURL = p.Next
	}

	if len(out.Results) > limit {
		out.Results = out.Results[:limit]
	}
	return out, nil
}

// pageFailure describes a failed page request.
type pageFailure struct {
	kind       FailureKind
	statusCode int
	err        error
}

// fetchPage performs a single page request and decodes the response.
func (c *Client) fetchPage(ctx context.Context, pageURL string) (page, *pageFailure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return page{}, &pageFailure{kind: FailureRequest, err: fmt.Errorf("creating request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return page{}, &pageFailure{kind: classifyFailure(err), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return page{}, &pageFailure{
			kind:       FailureHTTPStatus,
			statusCode: resp.StatusCode,
			err:        fmt.Errorf("API returned HTTP %d", resp.StatusCode),
		}
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return page{}, &pageFailure{kind: FailureRequest, err: fmt.Errorf("parsing response: %w", err)}
	}
	return p, nil
}

// setHeaders attaches the identifying agent and, when configured, the
// static token credential.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Token "+c.cfg.APIToken)
	}
}

// classifyFailure maps a transport error onto a FailureKind.
func classifyFailure(err error) FailureKind {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return FailureConnection
	}
	return FailureRequest
}
