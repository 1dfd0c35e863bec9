package match

import (
	"context"
	"testing"

	"github.com/poiesic/treesearch/normalize"
	"github.com/poiesic/treesearch/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates a root with one category per entry in groups, each
// holding the given leaf labels.
func buildTree(t *testing.T, groups map[string][]string, order ...string) *tree.Item {
	t.Helper()
	root := tree.NewItem(tree.Content{Text: "root"}, len(order))
	for _, name := range order {
		cat := tree.NewItem(tree.Content{Text: name}, len(groups[name]))
		for _, label := range groups[name] {
			require.NoError(t, cat.Add(tree.NewLeaf(label)))
		}
		require.NoError(t, root.Add(cat))
	}
	return root
}

func flatTree(t *testing.T, labels ...string) *tree.Item {
	t.Helper()
	root := tree.NewItem(tree.Content{Text: "root"}, len(labels))
	for _, label := range labels {
		require.NoError(t, root.Add(tree.NewLeaf(label)))
	}
	return root
}

func texts(node *tree.Item) []string {
	out := make([]string, 0, node.Len())
	for _, child := range node.Children() {
		out = append(out, child.Text())
	}
	return out
}

func newMatcher(t *testing.T, opts ...ConfigOption) *Matcher {
	t.Helper()
	m, err := NewMatcher(NewConfig(opts...))
	require.NoError(t, err)
	return m
}

func TestRun_FuzzyFindsNoisyLabel(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"Greek": {"Gamma", "Alpha Beta"},
	}, "Greek")
	m := newMatcher(t, WithFuzzy(true))

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "alphabeta", &NodeCollector{Node: results, Sorted: true})

	assert.Equal(t, StateCompleted, res.State)
	require.Equal(t, 1, results.Len())
	hit := results.Child(0)
	assert.Equal(t, "Alpha Beta", hit.Text())
	assert.Equal(t, 0, hit.Rank().Index)
	assert.Equal(t, len("alphabeta"), hit.Rank().Length)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 3, res.Visited)
}

func TestRun_ExactSortedByMatchIndex(t *testing.T) {
	root := flatTree(t, "AXyz", "Other", "Xyz")
	m := newMatcher(t,
		WithFuzzy(false),
		WithCaseInsensitive(true),
		WithSortByMatchQuality(true),
	)

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "xyz", &NodeCollector{Node: results, Sorted: true})

	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, []string{"Xyz", "AXyz"}, texts(results))
	assert.Equal(t, 0, results.Child(0).Rank().Index)
	assert.Equal(t, 1, results.Child(1).Rank().Index)
}

func TestRun_UnsortedKeepsVisitOrder(t *testing.T) {
	root := flatTree(t, "AXyz", "Xyz")
	m := newMatcher(t, WithFuzzy(false), WithSortByMatchQuality(false))

	results := tree.NewItem(tree.Content{}, 0)
	m.Run(context.Background(), root, "xyz", &NodeCollector{Node: results, Sorted: m.Sorted()})
	assert.Equal(t, []string{"AXyz", "Xyz"}, texts(results))
}

func TestRun_ExactModeKeepsNoise(t *testing.T) {
	root := flatTree(t, "Alpha Beta", "alpha_beta")
	m := newMatcher(t, WithFuzzy(false), WithCaseInsensitive(true))

	results := tree.NewItem(tree.Content{}, 0)
	m.Run(context.Background(), root, "alphabeta", &NodeCollector{Node: results})
	assert.Zero(t, results.Len())

	m.Run(context.Background(), root, "alpha beta", &NodeCollector{Node: results})
	assert.Equal(t, []string{"Alpha Beta"}, texts(results))
}

func TestRun_ExactCaseSensitive(t *testing.T) {
	root := flatTree(t, "Xyz", "xyz")
	m := newMatcher(t, WithFuzzy(false), WithCaseInsensitive(false))

	results := tree.NewItem(tree.Content{}, 0)
	m.Run(context.Background(), root, "Xyz", &NodeCollector{Node: results})
	assert.Equal(t, []string{"Xyz"}, texts(results))
}

func TestRun_StripMarkup(t *testing.T) {
	root := flatTree(t, "<b>Mesh</b> Renderer", "Skinned Mesh")

	t.Run("stripped", func(t *testing.T) {
		m := newMatcher(t, WithFuzzy(false), WithStripMarkup(true))
		results := tree.NewItem(tree.Content{}, 0)
		m.Run(context.Background(), root, "mesh renderer", &NodeCollector{Node: results})
		assert.Equal(t, []string{"<b>Mesh</b> Renderer"}, texts(results))
	})

	t.Run("kept", func(t *testing.T) {
		m := newMatcher(t, WithFuzzy(false), WithStripMarkup(false))
		results := tree.NewItem(tree.Content{}, 0)
		m.Run(context.Background(), root, "<b>", &NodeCollector{Node: results})
		assert.Equal(t, []string{"<b>Mesh</b> Renderer"}, texts(results))
	})
}

func TestRun_ResultLimit(t *testing.T) {
	root := flatTree(t, "match one", "match two", "match three")
	m := newMatcher(t, WithResultLimit(1))

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "match", &NodeCollector{Node: results})

	assert.Equal(t, StateLimitReached, res.State)
	assert.Equal(t, 1, results.Len())
}

func TestRun_LimitNotReachedWhenLastMatchFillsIt(t *testing.T) {
	root := flatTree(t, "other", "match")
	m := newMatcher(t, WithResultLimit(1))

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "match", &NodeCollector{Node: results})
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 1, results.Len())
}

func TestRun_CanceledContext(t *testing.T) {
	root := flatTree(t, "a", "b")
	m := newMatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(ctx, root, "a", &NodeCollector{Node: results})
	assert.Equal(t, StateCanceled, res.State)
	assert.Zero(t, res.Visited)
	assert.Zero(t, results.Len())
}

type refusingCollector struct {
	accept int
	items  []*tree.Item
}

func (c *refusingCollector) Collect(item *tree.Item, _ tree.Rank) bool {
	if len(c.items) >= c.accept {
		return false
	}
	c.items = append(c.items, item)
	return true
}

func (c *refusingCollector) Len() int { return len(c.items) }

func TestRun_CollectorRefusalCancels(t *testing.T) {
	root := flatTree(t, "hit 1", "hit 2", "hit 3")
	m := newMatcher(t)

	c := &refusingCollector{accept: 1}
	res := m.Run(context.Background(), root, "hit", c)
	assert.Equal(t, StateCanceled, res.State)
	assert.Equal(t, 1, res.Matched)
	assert.Len(t, c.items, 1, "partial results stay")
}

func TestRun_SkipsCategoriesAndSeparators(t *testing.T) {
	root := tree.NewItem(tree.Content{Text: "root"}, 0)
	physics := tree.NewItem(tree.Content{Text: "Physics"}, 0)
	require.NoError(t, physics.Add(tree.NewLeaf("Rigidbody")))
	require.NoError(t, root.Add(physics))
	require.NoError(t, root.Add(tree.NewSeparator()))
	require.NoError(t, root.Add(tree.NewLeaf("Physics Material")))

	m := newMatcher(t)
	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "physics", &NodeCollector{Node: results})

	assert.Equal(t, []string{"Physics Material"}, texts(results))
	assert.Equal(t, 4, res.Visited)
}

func TestRun_BlankQueryIsIdle(t *testing.T) {
	root := flatTree(t, "a")
	m := newMatcher(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		results := tree.NewItem(tree.Content{}, 0)
		res := m.Run(context.Background(), root, q, &NodeCollector{Node: results})
		assert.Equal(t, StateIdle, res.State)
		assert.Zero(t, res.Visited)
		assert.Zero(t, results.Len())
	}
}

func TestRun_QueryIsTrimmed(t *testing.T) {
	root := flatTree(t, "Camera")
	m := newMatcher(t, WithFuzzy(false))

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "  cam  ", &NodeCollector{Node: results})
	assert.Equal(t, "cam", res.Query)
	assert.Equal(t, 1, results.Len())
}

func TestRun_NoiseOnlyQueryMatchesEverything(t *testing.T) {
	root := flatTree(t, "a", "b")
	m := newMatcher(t, WithFuzzy(true))

	results := tree.NewItem(tree.Content{}, 0)
	res := m.Run(context.Background(), root, "_-.", &NodeCollector{Node: results})
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 2, results.Len())
	assert.Equal(t, tree.Rank{Index: 0, Length: 0}, results.Child(0).Rank())
}

func TestRun_KeyCacheIsFilled(t *testing.T) {
	root := flatTree(t, "One", "Two", "Three")
	cache, err := NewKeyCache(16)
	require.NoError(t, err)

	m, err := NewMatcher(DefaultConfig(), WithKeyCache(cache))
	require.NoError(t, err)

	m.Run(context.Background(), root, "t", &NodeCollector{Node: tree.NewItem(tree.Content{}, 0)})
	assert.Equal(t, 3, cache.Len())

	exact, err := NewMatcher(NewConfig(WithFuzzy(false)), WithKeyCache(cache))
	require.NoError(t, err)
	results := tree.NewItem(tree.Content{}, 0)
	exact.Run(context.Background(), root, "T", &NodeCollector{Node: results})
	assert.Equal(t, 6, cache.Len(), "modes are cached separately")
	assert.Equal(t, []string{"Two", "Three"}, texts(results))

	cache.Purge()
	assert.Zero(t, cache.Len())
}

type recordingMonitor struct {
	started  []string
	matched  []string
	finished []Result
}

func (r *recordingMonitor) Start(query string) { r.started = append(r.started, query) }
func (r *recordingMonitor) Matched(item *tree.Item, _ tree.Rank) {
	r.matched = append(r.matched, item.Text())
}
func (r *recordingMonitor) Finish(result Result) { r.finished = append(r.finished, result) }

func TestRun_Monitor(t *testing.T) {
	root := flatTree(t, "Audio Source", "Audio Listener", "Light")
	mon := &recordingMonitor{}
	m, err := NewMatcher(nil, WithMonitor(mon), WithLogger(nil))
	require.NoError(t, err)

	m.Run(context.Background(), root, "audio", &NodeCollector{Node: tree.NewItem(tree.Content{}, 0)})

	assert.Equal(t, []string{"audio"}, mon.started)
	assert.Equal(t, []string{"Audio Source", "Audio Listener"}, mon.matched)
	require.Len(t, mon.finished, 1)
	assert.Equal(t, StateCompleted, mon.finished[0].State)
	assert.Equal(t, 2, mon.finished[0].Matched)
}

func TestNewMatcher_InvalidConfig(t *testing.T) {
	cfg := NewConfig(WithMarkers(normalize.Markers{Begin: '|', End: '|'}))
	_, err := NewMatcher(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg.StripMarkup = false
	_, err = NewMatcher(cfg)
	assert.NoError(t, err, "markers unused without stripping")
}

func TestMatcher_Key(t *testing.T) {
	fuzzy := newMatcher(t, WithFuzzy(true))
	assert.Equal(t, "gameobject", fuzzy.Key("<b>Game</b> Object"))

	exact := newMatcher(t, WithFuzzy(false), WithCaseInsensitive(true))
	assert.Equal(t, "game object", exact.Key("<b>Game</b> Object"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "canceled", StateCanceled.String())
	assert.Equal(t, "limit_reached", StateLimitReached.String())
	assert.Equal(t, "unknown", State(42).String())

	assert.False(t, StateRunning.Done())
	assert.True(t, StateLimitReached.Done())
}
