// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// unknownCourt is the placeholder for absent or empty court references.
const unknownCourt = "Unknown Court"

// indirectPrefix marks a court reference that is an API path requiring a
// follow-up lookup rather than a display name.
const indirectPrefix = "/api/"

// courtRefKind discriminates the shapes a court field can take.
type courtRefKind int

const (
	courtAbsent courtRefKind = iota
	courtInline
	courtDirect
	courtIndirect
)

// CourtRef is a court reference from a result record, reduced to one of
// four explicit cases: an inline object carrying a name, a direct display
// string, an indirect API path, or absent.
type CourtRef struct {
	kind courtRefKind
	name string // inline name or direct text
	path string // indirect API path
}

// InlineCourt returns a reference carrying an inline display name.
func InlineCourt(name string) CourtRef { return CourtRef{kind: courtInline, name: name} }

// DirectCourt returns a reference that is already a display string.
func DirectCourt(text string) CourtRef { return CourtRef{kind: courtDirect, name: text} }

// IndirectCourt returns a reference identified by an API path.
func IndirectCourt(path string) CourtRef { return CourtRef{kind: courtIndirect, path: path} }

// AbsentCourt returns the absent reference.
func AbsentCourt() CourtRef { return CourtRef{kind: courtAbsent} }

// ParseCourtRef decodes the raw court field into its explicit case. This
// is the single dispatch point for the field's loose shape; downstream
// code never re-inspects the raw JSON.
func ParseCourtRef(raw json.RawMessage) CourtRef {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return AbsentCourt()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return AbsentCourt()
		}
		if strings.HasPrefix(s, indirectPrefix) {
			return IndirectCourt(s)
		}
		return DirectCourt(s)
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return InlineCourt(obj.Name)
	}

	return AbsentCourt()
}

// CourtCache maps indirect court reference paths to resolved display
// names. It lives for the process, is never evicted or persisted, and is
// safe for concurrent use; lookup-then-insert is serialized so racing
// resolutions cannot corrupt the map, though they may duplicate a remote
// lookup.
type CourtCache struct {
	mu    sync.Mutex
	names map[string]string
}

// NewCourtCache returns an empty cache.
func NewCourtCache() *CourtCache {
	return &CourtCache{names: make(map[string]string)}
}

func (c *CourtCache) lookup(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[path]
	return name, ok
}

func (c *CourtCache) store(path, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[path] = name
}

// Len returns the number of cached names.
func (c *CourtCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

// ResolveCourtName turns a court reference into a display name. It never
// fails: lookup errors degrade to a name derived from the reference path,
// and absent or empty references become the "Unknown Court" placeholder.
//
// Indirect references consult the cache first; a successful lookup is
// cached for the life of the process, a failed one is not, so the next
// call for the same reference retries the remote lookup.
func (c *Client) ResolveCourtName(ctx context.Context, ref CourtRef) string {
	switch ref.kind {
	case courtInline, courtDirect:
		if ref.name == "" {
			return unknownCourt
		}
		return ref.name
	case courtIndirect:
		return c.resolveIndirect(ctx, ref.path)
	default:
		return unknownCourt
	}
}

func (c *Client) resolveIndirect(ctx context.Context, path string) string {
	if name, ok := c.courts.lookup(path); ok {
		c.Logger.Debug().Str("court", path).Msg("court cache hit")
		return name
	}

	name, err := c.lookupCourt(ctx, path)
	if err != nil {
		// Degraded name; deliberately not cached so a later call retries.
		c.Logger.Warn().Str("court", path).Err(err).Msg("court lookup failed, using path-derived name")
		return pathSegmentName(path)
	}
	if name == "" {
		name = pathSegmentName(path)
	}
	c.courts.store(path, name)
	return name
}

// lookupCourt fetches the court resource behind an indirect reference and
// returns its name field.
func (c *Client) lookupCourt(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SiteURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("court lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("court lookup returned HTTP %d", resp.StatusCode)
	}

	var court struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&court); err != nil {
		return "", fmt.Errorf("parsing court resource: %w", err)
	}
	return court.Name, nil
}

// pathSegmentName derives a display string from the last-but-one path
// segment of an indirect reference ("/api/rest/v4/courts/scotus/" →
// "scotus").
func pathSegmentName(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 2 {
		if seg := parts[len(parts)-2]; seg != "" {
			return seg
		}
	}
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		return trimmed
	}
	return unknownCourt
}

// PopularCourts lists commonly used court slugs and their full names for
// the courts command.
func PopularCourts() [][2]string {
	return [][2]string{
		{"scotus", "Supreme Court of the United States"},
		{"ca9", "U.S. Court of Appeals for the Ninth Circuit"},
		{"ca2", "U.S. Court of Appeals for the Second Circuit"},
		{"ca5", "U.S. Court of Appeals for the Fifth Circuit"},
		{"ca1", "U.S. Court of Appeals for the First Circuit"},
		{"dc", "U.S. District Court for the District of Columbia"},
		{"nysd", "U.S. District Court for the Southern District of New York"},
		{"nyed", "U.S. District Court for the Eastern District of New York"},
		{"cand", "U.S. District Court for the Northern District of California"},
		{"cacd", "U.S. District Court for the Central District of California"},
	}
}
