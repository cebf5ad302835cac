// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// The operator can save a search to a file and re-render or export it
// later without re-querying the API.
type QueryFile struct {
	Query   QueryParams     `yaml:"query"`
	Config  QueryFileConfig `yaml:"config"`
	Results []types.Opinion `yaml:"results"`
	Summary QuerySummary    `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	FreeText string `yaml:"free_text,omitempty"`
	Court    string `yaml:"court,omitempty"`
	DateFrom string `yaml:"date_from,omitempty"`
	DateTo   string `yaml:"date_to,omitempty"`
}

// QueryFileConfig stores the fetch configuration that produced the results.
type QueryFileConfig struct {
	Endpoint string `yaml:"endpoint"`
	Limit    int    `yaml:"limit"`
}

// QuerySummary stores the fetch outcome and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Status    string    `yaml:"status"`
	Failure   string    `yaml:"failure,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query parameters and normalized results to a YAML file.
func WriteQueryFile(path string, query Query, endpoint string, limit int, out Outcome, results []types.Opinion) error {
	qf := QueryFile{
		Query: QueryParams{
			FreeText: query.FreeText,
			Court:    query.Court,
		},
		Config: QueryFileConfig{
			Endpoint: endpoint,
			Limit:    limit,
		},
		Results: results,
		Summary: QuerySummary{
			Total:     len(results),
			Status:    string(out.Status),
			Failure:   string(out.Failure),
			Timestamp: time.Now(),
		},
	}

	if !query.DateFrom.IsZero() {
		qf.Query.DateFrom = query.DateFrom.Format(dateFmt)
	}
	if !query.DateTo.IsZero() {
		qf.Query.DateTo = query.DateTo.Format(dateFmt)
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query struct.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{
		FreeText: p.FreeText,
		Court:    p.Court,
	}
	if p.DateFrom != "" {
		t, err := time.Parse(dateFmt, p.DateFrom)
		if err != nil {
			return q, fmt.Errorf("invalid date_from %q: %w", p.DateFrom, err)
		}
		q.DateFrom = t
	}
	if p.DateTo != "" {
		t, err := time.Parse(dateFmt, p.DateTo)
		if err != nil {
			return q, fmt.Errorf("invalid date_to %q: %w", p.DateTo, err)
		}
		q.DateTo = t
	}
	return q, nil
}
