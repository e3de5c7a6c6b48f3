// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that call the search API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "kanoon-match/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// BaseURL is the search API root (default https://api.indiankanoon.org).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig holds the fixed settings of one search invocation. Values are
// passed by copy into the lookup; nothing reads them from package state.
type SearchConfig struct {
	// MaxPages is the number of result pages requested (always 1).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxCites and MaxCitedBy limit citation expansion (0 disables it).
	MaxCites   int `json:"max_cites" yaml:"max_cites"`
	MaxCitedBy int `json:"max_cited_by" yaml:"max_cited_by"`

	// Orig requests original court copies; PathBySrc groups downloads by
	// source. Both stay off for title lookups.
	Orig      bool `json:"orig" yaml:"orig"`
	PathBySrc bool `json:"path_by_src" yaml:"path_by_src"`

	// NumWorkers is the number of concurrent fetchers (always 1).
	NumWorkers int `json:"num_workers" yaml:"num_workers"`

	// AddedToday, FromDate, ToDate and SortBy are date filters and ordering;
	// all disabled.
	AddedToday bool   `json:"added_today" yaml:"added_today"`
	FromDate   string `json:"from_date,omitempty" yaml:"from_date,omitempty"`
	ToDate     string `json:"to_date,omitempty" yaml:"to_date,omitempty"`
	SortBy     string `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`

	// MaxResults is the size of the candidate set (5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DefaultMaxResults is the number of candidates presented to the matcher.
const DefaultMaxResults = 5

// DefaultSearchConfig returns the settings used for every title lookup:
// one page, no citation limits, a single worker and no date filtering.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxPages:   1,
		NumWorkers: 1,
		MaxResults: DefaultMaxResults,
	}
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	// Enabled turns on reading and writing cached search payloads.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// RateConfig paces outgoing search requests.
type RateConfig struct {
	PerSecond float64 `json:"per_second" yaml:"per_second" mapstructure:"per_second"`
	Burst     int     `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// ServeConfig holds settings for the HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":3001").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// AppConfig groups everything read from the config file and environment.
type AppConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// DataDir is the directory holding the storage database (default "./").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Token is the API token for serve and batch; the primary command takes
	// it as an argument instead.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log   LogConfig   `json:"log" yaml:"log" mapstructure:"log"`
	Rate  RateConfig  `json:"rate" yaml:"rate" mapstructure:"rate"`
	Serve ServeConfig `json:"serve" yaml:"serve" mapstructure:"serve"`
}
