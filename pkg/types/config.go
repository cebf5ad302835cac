package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Requests exceeding it resolve
	// to a timeout failure outcome, never an indefinite block.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "caselaw-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the CourtListener search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the CourtListener API root
	// (default "https://www.courtlistener.com/api/rest/v4").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// SiteURL is the root used to build detail URLs and to resolve
	// indirect court references (default "https://www.courtlistener.com").
	SiteURL string `json:"site_url" yaml:"site_url"`

	// APIToken is the CourtListener API token sent as
	// "Authorization: Token ...". Empty means anonymous access.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// PageSize is the fixed page size requested from the API (default 20).
	// Continuation pages carry whatever size the server encoded in the
	// next link; this constant also sizes the page budget.
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxResults is the default result limit when the caller gives none
	// (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ArchiveConfig holds settings for the local opinion archive.
type ArchiveConfig struct {
	// ArchiveDir is the base directory for the archive (contains index/).
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
