// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"fmt"

	"github.com/poiesic/treesearch/normalize"
)

// Config controls how a pass keys labels and collects results. It is read
// only while a pass runs.
type Config struct {
	// CaseInsensitive folds case on both sides in exact mode. Fuzzy mode
	// always folds.
	CaseInsensitive bool

	// Fuzzy selects alternate-key matching instead of exact matching.
	Fuzzy bool

	// StripMarkup removes marker-delimited spans from labels and query
	// before keying.
	StripMarkup bool

	// SortByMatchQuality inserts results ordered by rank instead of
	// appending them in visit order.
	SortByMatchQuality bool

	// ResultLimit stops a pass once this many results are collected.
	// Zero or negative means unbounded.
	ResultLimit int

	// Markers delimit markup spans.
	// Default: normalize.DefaultMarkers
	Markers normalize.Markers
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithCaseInsensitive sets exact-mode case folding.
func WithCaseInsensitive(v bool) ConfigOption {
	return func(c *Config) {
		c.CaseInsensitive = v
	}
}

// WithFuzzy selects fuzzy (alternate key) or exact matching.
func WithFuzzy(v bool) ConfigOption {
	return func(c *Config) {
		c.Fuzzy = v
	}
}

// WithStripMarkup sets markup stripping.
func WithStripMarkup(v bool) ConfigOption {
	return func(c *Config) {
		c.StripMarkup = v
	}
}

// WithSortByMatchQuality sets ranked insertion of results.
func WithSortByMatchQuality(v bool) ConfigOption {
	return func(c *Config) {
		c.SortByMatchQuality = v
	}
}

// WithResultLimit caps the number of results per pass.
func WithResultLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.ResultLimit = limit
	}
}

// WithMarkers sets the markup delimiters.
func WithMarkers(m normalize.Markers) ConfigOption {
	return func(c *Config) {
		c.Markers = m
	}
}

// DefaultConfig returns a case-insensitive fuzzy configuration that strips
// markup, ranks results and has no result limit.
func DefaultConfig() *Config {
	return &Config{
		CaseInsensitive:    true,
		Fuzzy:              true,
		StripMarkup:        true,
		SortByMatchQuality: true,
		ResultLimit:        0,
		Markers:            normalize.DefaultMarkers,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := NewConfig(
//		WithFuzzy(false),
//		WithResultLimit(200),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.StripMarkup && !c.Markers.Valid() {
		return fmt.Errorf("%w: markers %q and %q must be distinct and non-zero",
			ErrInvalidConfig, c.Markers.Begin, c.Markers.End)
	}
	return nil
}

// Limited reports whether n results exhaust the configured limit.
func (c *Config) Limited(n int) bool {
	return c.ResultLimit > 0 && n >= c.ResultLimit
}
