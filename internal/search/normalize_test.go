// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"21-476"`, "21-476"},
		{"number", `12345`, "12345"},
		{"null", `null`, ""},
		{"object ignored", `{"unexpected": true}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if string(f) != tt.want {
				t.Errorf("got %q, want %q", f, tt.want)
			}
		})
	}
}

func TestFlexStringsUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"array of strings", `["410 U.S. 113", "93 S. Ct. 705"]`, "410 U.S. 113, 93 S. Ct. 705"},
		{"single string", `"410 U.S. 113"`, "410 U.S. 113"},
		{"array with empty entries", `["410 U.S. 113", "", "93 S. Ct. 705"]`, "410 U.S. 113, 93 S. Ct. 705"},
		{"empty array", `[]`, ""},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexStrings
			if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := f.Join(); got != tt.want {
				t.Errorf("Join() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	c := NewClient(types.SearchConfig{SiteURL: "https://www.courtlistener.com"}, nil)

	tests := []struct {
		name string
		raw  RawOpinion
		want types.Opinion
	}{
		{
			name: "fully populated record",
			raw: RawOpinion{
				CaseName:     "Roe v. Wade",
				Court:        json.RawMessage(`"Supreme Court of the United States"`),
				DateFiled:    "1973-01-22",
				AbsoluteURL:  "/opinion/108713/roe-v-wade/",
				DocketNumber: "70-18",
				Citation:     FlexStrings{"410 U.S. 113", "93 S. Ct. 705"},
			},
			want: types.Opinion{
				CaseName:     "Roe v. Wade",
				Court:        "Supreme Court of the United States",
				DateFiled:    "1973-01-22",
				URL:          "https://www.courtlistener.com/opinion/108713/roe-v-wade/",
				DocketNumber: "70-18",
				Citation:     "410 U.S. 113, 93 S. Ct. 705",
			},
		},
		{
			name: "absent fields get placeholders",
			raw:  RawOpinion{},
			want: types.Opinion{
				CaseName:  "Unknown Case",
				Court:     "Unknown Court",
				DateFiled: "Unknown Date",
				URL:       "https://www.courtlistener.com",
			},
		},
		{
			name: "inline court object",
			raw: RawOpinion{
				CaseName:    "Test v. Test",
				Court:       json.RawMessage(`{"name": "Ninth Circuit"}`),
				DateFiled:   "2024-06-01",
				AbsoluteURL: "/opinion/1/test/",
			},
			want: types.Opinion{
				CaseName:  "Test v. Test",
				Court:     "Ninth Circuit",
				DateFiled: "2024-06-01",
				URL:       "https://www.courtlistener.com/opinion/1/test/",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Normalize(context.Background(), tt.raw)
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	c := NewClient(types.SearchConfig{SiteURL: "https://example.com"}, nil)

	raws := []RawOpinion{
		{CaseName: "First"},
		{CaseName: "Second"},
		{CaseName: "Third"},
	}
	got := c.NormalizeAll(context.Background(), raws)

	if len(got) != 3 {
		t.Fatalf("got %d opinions, want 3", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].CaseName != want {
			t.Errorf("opinion %d = %q, want %q", i, got[i].CaseName, want)
		}
	}
}

func TestRawOpinionDecode(t *testing.T) {
	// A record shaped the way the search endpoint returns it.
	raw := `{
		"case_name": "Brown v. Board of Education",
		"court": "/api/rest/v4/courts/scotus/",
		"date_filed": "1954-05-17",
		"absolute_url": "/opinion/105234/brown-v-board/",
		"docket_number": 1,
		"citation": ["347 U.S. 483"]
	}`

	var op RawOpinion
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if op.CaseName != "Brown v. Board of Education" {
		t.Errorf("CaseName = %q", op.CaseName)
	}
	if ref := ParseCourtRef(op.Court); ref != IndirectCourt("/api/rest/v4/courts/scotus/") {
		t.Errorf("court ref = %+v, want indirect", ref)
	}
	if string(op.DocketNumber) != "1" {
		t.Errorf("DocketNumber = %q, want numeric coerced to string", op.DocketNumber)
	}
	if op.Citation.Join() != "347 U.S. 483" {
		t.Errorf("Citation = %q", op.Citation.Join())
	}
}
