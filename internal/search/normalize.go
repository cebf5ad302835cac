// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// Placeholders for absent record fields.
const (
	unknownCase = "Unknown Case"
	unknownDate = "Unknown Date"
)

// RawOpinion mirrors one loosely-typed opinion record as the API returns
// it. Only the fields consumed downstream are decoded; flexible-shape
// fields get dedicated types so the rest of the pipeline sees strings.
type RawOpinion struct {
	CaseName     string          `json:"case_name"`
	Court        json.RawMessage `json:"court"`
	DateFiled    string          `json:"date_filed"`
	AbsoluteURL  string          `json:"absolute_url"`
	DocketNumber FlexString      `json:"docket_number"`
	Citation     FlexStrings     `json:"citation"`
}

// FlexString decodes a JSON string, number, or null into a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	// Unexpected shape; keep the record usable rather than failing it.
	*f = ""
	return nil
}

// FlexStrings decodes a JSON string, an array of strings or numbers, or
// null into a string slice. Empty array entries are dropped.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = nil
		} else {
			*f = FlexStrings{s}
		}
		return nil
	}
	var items []FlexString
	if err := json.Unmarshal(data, &items); err == nil {
		var out FlexStrings
		for _, item := range items {
			if item != "" {
				out = append(out, string(item))
			}
		}
		*f = out
		return nil
	}
	*f = nil
	return nil
}

// Join flattens the citations into a single display string.
func (f FlexStrings) Join() string {
	return strings.Join(f, ", ")
}

// Normalize reduces one raw record to displayable strings. Court
// resolution may trigger a remote lookup through the shared cache.
func (c *Client) Normalize(ctx context.Context, raw RawOpinion) types.Opinion {
	caseName := raw.CaseName
	if caseName == "" {
		caseName = unknownCase
	}
	dateFiled := raw.DateFiled
	if dateFiled == "" {
		dateFiled = unknownDate
	}

	return types.Opinion{
		CaseName:     caseName,
		Court:        c.ResolveCourtName(ctx, ParseCourtRef(raw.Court)),
		DateFiled:    dateFiled,
		URL:          c.cfg.SiteURL + raw.AbsoluteURL,
		DocketNumber: string(raw.DocketNumber),
		Citation:     raw.Citation.Join(),
	}
}

// NormalizeAll normalizes a fetched result set in order.
func (c *Client) NormalizeAll(ctx context.Context, raws []RawOpinion) []types.Opinion {
	opinions := make([]types.Opinion, len(raws))
	for i, raw := range raws {
		opinions[i] = c.Normalize(ctx, raw)
	}
	return opinions
}
