// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the caselaw-engine
// pipeline: the normalized opinion record that flows from the fetcher to
// rendering, export, and the archive, and the configuration blocks each
// stage consumes.
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// Opinion is a fully normalized opinion record: every field reduced to a
// directly displayable string. Produced once per raw API record by the
// search stage and immutable thereafter.
type Opinion struct {
	// CaseName is the case caption ("Roe v. Wade"); "Unknown Case" when
	// the API record carries none.
	CaseName string `json:"case_name" yaml:"case_name"`

	// Court is the resolved court display name. May come from an inline
	// court object, a cached lookup, or a degraded path-segment fallback.
	Court string `json:"court" yaml:"court"`

	// DateFiled is the filing date as returned by the API (YYYY-MM-DD);
	// "Unknown Date" when absent.
	DateFiled string `json:"date_filed" yaml:"date_filed"`

	// URL is the constructed absolute detail URL on courtlistener.com.
	URL string `json:"url" yaml:"url"`

	// DocketNumber is the docket identifier. The API returns this as a
	// string or a bare number; normalization flattens both.
	DocketNumber string `json:"docket_number" yaml:"docket_number"`

	// Citation is the flattened citation string. Multiple citations are
	// joined with ", " in API order.
	Citation string `json:"citation" yaml:"citation"`
}
