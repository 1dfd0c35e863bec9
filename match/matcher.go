package match

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/treesearch/normalize"
	"github.com/poiesic/treesearch/tree"
)

// Result summarizes one pass.
type Result struct {
	Query   string // Trimmed query that was matched
	State   State
	Visited int // Nodes visited, excluding the root
	Matched int // Items accepted by the collector
	Elapsed time.Duration
}

// Matcher runs passes under a fixed Config. A Matcher may run several passes
// concurrently as long as each uses its own Collector.
type Matcher struct {
	config  Config
	mode    keyMode
	cache   *KeyCache
	monitor Monitor
	logger  *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMonitor sets the pass observer.
func WithMonitor(monitor Monitor) Option {
	return func(m *Matcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// WithKeyCache shares a label key cache with the matcher.
func WithKeyCache(cache *KeyCache) Option {
	return func(m *Matcher) error {
		m.cache = cache
		return nil
	}
}

// NewMatcher creates a matcher. A nil cfg means DefaultConfig(). The
// configuration is copied.
func NewMatcher(cfg *Config, opts ...Option) (*Matcher, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		config: *cfg,
		mode: keyMode{
			fuzzy:   cfg.Fuzzy,
			strip:   cfg.StripMarkup,
			fold:    cfg.Fuzzy || cfg.CaseInsensitive,
			markers: cfg.Markers,
		},
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Config returns a copy of the matcher's configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// Sorted reports whether results should be inserted by rank.
func (m *Matcher) Sorted() bool {
	return m.config.SortByMatchQuality
}

// Key returns the normalized form of s under the matcher's mode.
func (m *Matcher) Key(s string) string {
	return m.keyWith(normalize.NewKeyBuilder(m.config.Markers), s)
}

func (m *Matcher) keyWith(kb *normalize.KeyBuilder, s string) string {
	if m.mode.fuzzy {
		return kb.Key(s, m.mode.strip)
	}
	if m.mode.strip {
		s = normalize.StripMarkupWith(s, m.mode.markers)
	}
	if m.mode.fold {
		s = kb.Lower(s)
	}
	return s
}

// Run matches query against every leaf below root and hands hits to c.
//
// An empty or blank query returns StateIdle without visiting anything. The
// pass stops with StateCanceled as soon as ctx is done or c refuses an item,
// and with StateLimitReached once c holds ResultLimit items. Items already
// collected are left in place either way.
func (m *Matcher) Run(ctx context.Context, root *tree.Item, query string, c Collector) Result {
	query = strings.TrimSpace(query)
	if query == "" || root == nil {
		return Result{Query: query, State: StateIdle}
	}

	kb := normalize.NewKeyBuilder(m.config.Markers)
	p := &pass{
		matcher:   m,
		ctx:       ctx,
		kb:        kb,
		needle:    m.keyWith(kb, query),
		collector: c,
		result:    Result{Query: query, State: StateRunning},
	}

	m.monitor.Start(query)
	start := time.Now()

	p.children(root)
	if p.result.State == StateRunning {
		p.result.State = StateCompleted
	}
	p.result.Elapsed = time.Since(start)

	m.logger.Debug("match pass finished",
		"query", query,
		"state", p.result.State,
		"visited", p.result.Visited,
		"matched", p.result.Matched,
		"elapsed", p.result.Elapsed)
	m.monitor.Finish(p.result)

	return p.result
}

type pass struct {
	matcher   *Matcher
	ctx       context.Context
	kb        *normalize.KeyBuilder
	needle    string
	collector Collector
	result    Result
}

func (p *pass) children(node *tree.Item) bool {
	for _, child := range node.Children() {
		if !p.visit(child) {
			return false
		}
	}
	return true
}

// visit returns false once the pass has stopped.
func (p *pass) visit(item *tree.Item) bool {
	if p.ctx.Err() != nil {
		p.result.State = StateCanceled
		return false
	}
	if p.matcher.config.Limited(p.collector.Len()) {
		p.result.State = StateLimitReached
		return false
	}
	p.result.Visited++

	if item.IsSeparator() {
		return true
	}
	if !item.IsLeaf() {
		return p.children(item)
	}

	index := normalize.Index(p.key(item.Text()), p.needle)
	if index < 0 {
		return true
	}

	rank := tree.Rank{Index: index, Length: len(p.needle)}
	if !p.collector.Collect(item, rank) {
		p.result.State = StateCanceled
		return false
	}
	p.result.Matched++
	p.matcher.monitor.Matched(item, rank)
	return true
}

func (p *pass) key(label string) string {
	m := p.matcher
	if key, ok := m.cache.get(label, m.mode); ok {
		return key
	}
	key := m.keyWith(p.kb, label)
	m.cache.add(label, m.mode, key)
	return key
}
