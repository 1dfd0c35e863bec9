/*
Package config manages the TOML configuration of picker hosts.

A configuration file has three sections:

	[match]
	case_insensitive = true
	fuzzy = true
	strip_markup = true
	sort_by_match_quality = true
	result_limit = 200
	markers = "<>"

	[session]
	key_cache_size = 4096
	pool_size = 0

	[log]
	level = "info"

Missing keys keep their defaults. When a file decodes but some values have
the wrong type, the well-typed values are still applied.
*/
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/normalize"
)

// ErrInvalidMarkers is returned when the markers value is not exactly two
// distinct characters.
var ErrInvalidMarkers = errors.New("markers must be two distinct characters")

// Config holds the entire config structure
type Config struct {
	Match   MatchConfig   `toml:"match"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// MatchConfig has match pass options.
type MatchConfig struct {
	CaseInsensitive    bool   `toml:"case_insensitive"`
	Fuzzy              bool   `toml:"fuzzy"`
	StripMarkup        bool   `toml:"strip_markup"`
	SortByMatchQuality bool   `toml:"sort_by_match_quality"`
	ResultLimit        int    `toml:"result_limit"`
	Markers            string `toml:"markers"`
}

// SessionConfig holds session and worker options.
type SessionConfig struct {
	KeyCacheSize int `toml:"key_cache_size"`
	PoolSize     int `toml:"pool_size"` // 0 picks the engine default
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			CaseInsensitive:    true,
			Fuzzy:              true,
			StripMarkup:        true,
			SortByMatchQuality: true,
			ResultLimit:        200,
			Markers:            "<>",
		},
		Session: SessionConfig{
			KeyCacheSize: match.DefaultKeyCacheSize,
			PoolSize:     0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default location of config.toml under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "treesearch", "config.toml"), nil
}

// LoadConfig loads from a TOML file. A file that fails to decode into the
// typed structure is parsed again loosely and every well-typed value is
// kept; a file that is not TOML at all yields an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		slog.Warn("config has invalid values, attempting partial recovery", "path", path, "err", err)
		return tryPartialParse(path)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to built-in defaults when path is
// empty, missing or unreadable.
func LoadOrDefault(path string) *Config {
	if path == "" {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		slog.Warn("using built-in config defaults", "path", path, "err", err)
		return DefaultConfig()
	}
	return cfg
}

// tryPartialParse decodes path into a generic map and copies the values
// that have the expected types.
func tryPartialParse(path string) (*Config, error) {
	cfg := DefaultConfig()

	data := make(map[string]any)
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if section, ok := extractSection(data, "match"); ok {
		extractMatchConfig(section, &cfg.Match)
	}
	if section, ok := extractSection(data, "session"); ok {
		extractSessionConfig(section, &cfg.Session)
	}
	if section, ok := extractSection(data, "log"); ok {
		if val, ok := extractString(section, "level"); ok {
			cfg.Log.Level = val
		}
	}
	return cfg, nil
}

func extractMatchConfig(data map[string]any, m *MatchConfig) {
	if val, ok := extractBool(data, "case_insensitive"); ok {
		m.CaseInsensitive = val
	}
	if val, ok := extractBool(data, "fuzzy"); ok {
		m.Fuzzy = val
	}
	if val, ok := extractBool(data, "strip_markup"); ok {
		m.StripMarkup = val
	}
	if val, ok := extractBool(data, "sort_by_match_quality"); ok {
		m.SortByMatchQuality = val
	}
	if val, ok := extractInt(data, "result_limit"); ok {
		m.ResultLimit = val
	}
	if val, ok := extractString(data, "markers"); ok {
		m.Markers = val
	}
}

func extractSessionConfig(data map[string]any, s *SessionConfig) {
	if val, ok := extractInt(data, "key_cache_size"); ok {
		s.KeyCacheSize = val
	}
	if val, ok := extractInt(data, "pool_size"); ok {
		s.PoolSize = val
	}
}

func extractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

func extractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

func extractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}

func extractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}

// SaveConfig saves into a TOML file, creating its directory.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		file.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return file.Close()
}

// ParseMarkers parses the markers setting.
func (m MatchConfig) ParseMarkers() (normalize.Markers, error) {
	if utf8.RuneCountInString(m.Markers) != 2 {
		return normalize.Markers{}, fmt.Errorf("%w: %q", ErrInvalidMarkers, m.Markers)
	}
	begin, size := utf8.DecodeRuneInString(m.Markers)
	end, _ := utf8.DecodeRuneInString(m.Markers[size:])
	markers := normalize.Markers{Begin: begin, End: end}
	if !markers.Valid() {
		return normalize.Markers{}, fmt.Errorf("%w: %q", ErrInvalidMarkers, m.Markers)
	}
	return markers, nil
}

// MatchConfig converts the [match] section into a validated match.Config.
func (c *Config) MatchConfig() (*match.Config, error) {
	markers, err := c.Match.ParseMarkers()
	if err != nil {
		return nil, err
	}
	cfg := match.NewConfig(
		match.WithCaseInsensitive(c.Match.CaseInsensitive),
		match.WithFuzzy(c.Match.Fuzzy),
		match.WithStripMarkup(c.Match.StripMarkup),
		match.WithSortByMatchQuality(c.Match.SortByMatchQuality),
		match.WithResultLimit(c.Match.ResultLimit),
		match.WithMarkers(markers),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
