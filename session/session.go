package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/tree"
)

// ownedPoolSize leaves room for a superseded pass to unwind while the pass
// that replaced it starts.
const ownedPoolSize = 2

// Session is the externally visible query and result surface over one tree.
// Its methods are safe for concurrent use.
type Session struct {
	root    *tree.Item
	results *tree.Item
	matcher *match.Matcher

	pool     *ants.Pool
	ownsPool bool
	parent   context.Context

	keyCacheSize int
	monitor      match.Monitor
	onUpdate     func()
	logger       *slog.Logger

	mu           sync.Mutex
	query        string
	generation   uint64
	cancel       context.CancelFunc
	done         chan struct{}
	running      bool
	reachedLimit bool
	last         match.Result
	closed       bool
}

// Option configures a Session.
type Option func(*Session) error

// WithPool runs passes on a shared pool. The session does not release it.
// Default is a private two-worker pool released by Close.
func WithPool(pool *ants.Pool) Option {
	return func(s *Session) error {
		s.pool = pool
		s.ownsPool = false
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor observes every pass the session runs.
func WithMonitor(monitor match.Monitor) Option {
	return func(s *Session) error {
		s.monitor = monitor
		return nil
	}
}

// WithKeyCacheSize sets how many label keys are remembered across passes.
// Zero or negative disables the cache.
// Default is match.DefaultKeyCacheSize.
func WithKeyCacheSize(size int) Option {
	return func(s *Session) error {
		s.keyCacheSize = size
		return nil
	}
}

// WithOnUpdate registers fn to be called whenever the view changes: when a
// pass ends and when a query clears the results. fn runs outside the session
// lock, possibly on a pool worker, and must not block.
func WithOnUpdate(fn func()) Option {
	return func(s *Session) error {
		s.onUpdate = fn
		return nil
	}
}

// WithContext sets the parent of every pass context. Canceling it cancels
// the running pass and every later one.
// Default is context.Background().
func WithContext(ctx context.Context) Option {
	return func(s *Session) error {
		if ctx == nil {
			ctx = context.Background()
		}
		s.parent = ctx
		return nil
	}
}

// New creates a session over root. A nil cfg means match.DefaultConfig().
func New(root *tree.Item, cfg *match.Config, opts ...Option) (*Session, error) {
	if root == nil {
		return nil, ErrRootRequired
	}
	if cfg == nil {
		cfg = match.DefaultConfig()
	}

	s := &Session{
		root:         root,
		parent:       context.Background(),
		keyCacheSize: match.DefaultKeyCacheSize,
		logger:       slog.Default(),
		done:         closedChan(),
		ownsPool:     true,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var cache *match.KeyCache
	if s.keyCacheSize > 0 {
		var err error
		cache, err = match.NewKeyCache(s.keyCacheSize)
		if err != nil {
			return nil, err
		}
	}

	matcher, err := match.NewMatcher(cfg,
		match.WithLogger(s.logger),
		match.WithMonitor(s.monitor),
		match.WithKeyCache(cache),
	)
	if err != nil {
		return nil, err
	}
	s.matcher = matcher

	capacity := cfg.ResultLimit
	if capacity <= 0 || capacity > 256 {
		capacity = 0
	}
	s.results = tree.NewItem(tree.Content{Text: "Search"}, capacity)

	if s.pool == nil {
		pool, err := ants.NewPool(ownedPoolSize)
		if err != nil {
			return nil, err
		}
		s.pool = pool
		s.ownsPool = true
	}

	return s, nil
}

// SetQuery replaces the query. An identical query is a no-op. Otherwise the
// running pass is canceled, previously matched items are reset to
// tree.Unmatched and the results node is emptied before a new pass is
// scheduled for a non-blank query. SetQuery waits neither for the pass nor
// for a free worker.
func (s *Session) SetQuery(query string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if query == s.query {
		s.mu.Unlock()
		return nil
	}

	s.supersede()
	s.query = query
	generation := s.generation

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		s.mu.Unlock()
		s.notify()
		return nil
	}

	ctx, cancel := context.WithCancel(s.parent)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true
	s.last = match.Result{Query: trimmed, State: match.StateRunning}
	s.mu.Unlock()

	if s.pool.IsClosed() {
		s.logger.Error("error submitting match pass", "query", trimmed, "err", ants.ErrPoolClosed)
		s.abandon(generation, cancel, done)
		return fmt.Errorf("submitting match pass: %w", ants.ErrPoolClosed)
	}

	// A saturated pool parks Submit until a worker frees up, so the hand-off
	// runs on its own goroutine and SetQuery returns at once.
	go s.submit(ctx, cancel, generation, trimmed, done)
	s.notify()
	return nil
}

// submit hands a pass to the pool. A pass superseded while waiting for a
// worker exits at its first node.
func (s *Session) submit(ctx context.Context, cancel context.CancelFunc, generation uint64, query string, done chan struct{}) {
	err := s.pool.Submit(func() {
		s.run(ctx, generation, query, done)
	})
	if err == nil {
		return
	}

	s.logger.Error("error submitting match pass", "query", query, "err", err)
	if s.abandon(generation, cancel, done) {
		s.notify()
	}
}

// abandon leaves the session idle after a pass could not be scheduled and
// reports whether generation was still current.
func (s *Session) abandon(generation uint64, cancel context.CancelFunc, done chan struct{}) bool {
	s.mu.Lock()
	current := s.generation == generation
	if current {
		s.running = false
		s.last.State = match.StateIdle
		s.cancel = nil
	}
	s.mu.Unlock()

	cancel()
	close(done)
	return current
}

// supersede invalidates the current pass and clears its results. Callers
// hold s.mu.
func (s *Session) supersede() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++

	for _, item := range s.results.Children() {
		item.ResetRank()
	}
	_ = s.results.Clear()

	s.running = false
	s.reachedLimit = false
	s.last = match.Result{}
	s.done = closedChan()
}

func (s *Session) run(ctx context.Context, generation uint64, query string, done chan struct{}) {
	defer close(done)

	c := &passCollector{
		session:    s,
		generation: generation,
		node:       match.NodeCollector{Node: s.results, Sorted: s.matcher.Sorted()},
	}
	result := s.matcher.Run(ctx, s.root, query, c)

	s.mu.Lock()
	current := s.generation == generation
	if current {
		s.running = false
		s.reachedLimit = result.State == match.StateLimitReached
		s.last = result
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
	}
	s.mu.Unlock()

	if !current {
		s.logger.Debug("superseded match pass exited", "query", query, "state", result.State)
		return
	}
	if result.State == match.StateLimitReached {
		s.logger.Info("match pass reached result limit", "query", query, "limit", s.matcher.Config().ResultLimit)
	}
	s.notify()
}

func (s *Session) notify() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

// Root returns the searched tree.
func (s *Session) Root() *tree.Item {
	return s.root
}

// Query returns the query as last set, untrimmed.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Active reports whether a non-blank query is set.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Session) activeLocked() bool {
	return strings.TrimSpace(s.query) != ""
}

// CurrentView returns the results node while a query is active and the root
// otherwise. While a pass is running the results node is being written to;
// use View or Results to read it consistently.
func (s *Session) CurrentView() *tree.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeLocked() {
		return s.results
	}
	return s.root
}

// View calls fn with the current view while holding the session lock. fn
// must not call back into the session.
func (s *Session) View(fn func(view *tree.Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeLocked() {
		fn(s.results)
		return
	}
	fn(s.root)
}

// Results returns a snapshot of the current results.
func (s *Session) Results() []*tree.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results.Children())
}

// IsRunning reports whether a pass for the current query is in flight.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ReachedLimit reports whether the last pass stopped at the result limit.
func (s *Session) ReachedLimit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reachedLimit
}

// State returns the state of the pass for the current query.
func (s *Session) State() match.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.State
}

// LastResult returns the summary of the pass for the current query. It is
// only complete once State is terminal.
func (s *Session) LastResult() match.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Wait blocks until the pass for the current query has ended or ctx is done.
// It returns immediately when no pass is running.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the running pass and releases the session's own pool. Close
// is idempotent. Results stay readable after Close.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if s.ownsPool && s.pool != nil {
		s.pool.Release()
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
