package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/treesearch/tree"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Separator splits path segments.
const Separator = "/"

// entry is the value stored in the path index.
type entry struct {
	item *tree.Item
	leaf bool
}

// Entry describes one leaf to add.
type Entry struct {
	Path    string
	Icon    string
	Tooltip string
	Value   any
}

// Builder assembles a tree from paths. It is not safe for concurrent use.
type Builder struct {
	root   *tree.Item
	index  *patricia.Trie
	leaves int
	sorted bool
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithSorted sorts every category by label when the tree is built.
func WithSorted(sorted bool) Option {
	return func(b *Builder) error {
		b.sorted = sorted
		return nil
	}
}

// WithRootLabel sets the text of the root item.
func WithRootLabel(label string) Option {
	return func(b *Builder) error {
		b.root.SetContent(tree.Content{Text: label})
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		root:   tree.NewItem(tree.Content{Text: "Root"}, 0),
		index:  patricia.NewTrie(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add creates the leaf named by path with value as its payload.
func (b *Builder) Add(path string, value any) (*tree.Item, error) {
	return b.AddEntry(Entry{Path: path, Value: value})
}

// AddEntry creates the leaf described by e, creating missing categories.
func (b *Builder) AddEntry(e Entry) (*tree.Item, error) {
	segments, err := split(e.Path)
	if err != nil {
		return nil, err
	}

	parent, err := b.ensureCategory(segments[:len(segments)-1])
	if err != nil {
		return nil, err
	}

	key := strings.Join(segments, Separator)
	if existing, ok := b.lookup(key); ok {
		if existing.leaf {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, key)
		}
		return nil, fmt.Errorf("%w: %s is a category", ErrPathConflict, key)
	}

	leaf := tree.NewItem(tree.Content{
		Text:    segments[len(segments)-1],
		Icon:    e.Icon,
		Tooltip: e.Tooltip,
	}, 0)
	leaf.SetID(tree.IDFromPath(key))
	leaf.SetValue(e.Value)

	if err := parent.Add(leaf); err != nil {
		return nil, err
	}
	b.index.Insert(patricia.Prefix(key), &entry{item: leaf, leaf: true})
	b.leaves++
	return leaf, nil
}

// AddSeparator appends a separator to the category at path, or to the root
// when path is blank.
func (b *Builder) AddSeparator(path string) error {
	parent := b.root
	if strings.TrimSpace(path) != "" {
		cat, ok := b.Category(path)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, path)
		}
		parent = cat
	}
	return parent.Add(tree.NewSeparator())
}

// Category returns the category item at path.
func (b *Builder) Category(path string) (*tree.Item, bool) {
	segments, err := split(path)
	if err != nil {
		return nil, false
	}
	e, ok := b.lookup(strings.Join(segments, Separator))
	if !ok || e.leaf {
		return nil, false
	}
	return e.item, true
}

// Categories returns the paths of all categories starting with prefix, in
// lexical order.
func (b *Builder) Categories(prefix string) []string {
	var out []string
	b.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		if e, ok := item.(*entry); ok && !e.leaf {
			out = append(out, string(p))
		}
		return nil
	})
	slices.Sort(out)
	return out
}

// Len returns the number of leaves added.
func (b *Builder) Len() int {
	return b.leaves
}

// Build returns the root of the assembled tree. The builder may keep adding
// to the same tree afterwards; the tree must not be changed while a search
// over it is running.
func (b *Builder) Build() *tree.Item {
	if b.sorted {
		b.root.SortAll(tree.CompareByText)
	}
	b.logger.Debug("catalog built", "leaves", b.leaves)
	return b.root
}

func (b *Builder) ensureCategory(segments []string) (*tree.Item, error) {
	parent := b.root
	for i := range segments {
		key := strings.Join(segments[:i+1], Separator)
		if e, ok := b.lookup(key); ok {
			if e.leaf {
				return nil, fmt.Errorf("%w: %s is a leaf", ErrPathConflict, key)
			}
			parent = e.item
			continue
		}

		cat := tree.NewItem(tree.Content{Text: segments[i]}, 0)
		cat.SetID(tree.IDFromPath(key))
		if err := parent.Add(cat); err != nil {
			return nil, err
		}
		b.index.Insert(patricia.Prefix(key), &entry{item: cat})
		parent = cat
	}
	return parent, nil
}

func (b *Builder) lookup(key string) (*entry, bool) {
	item := b.index.Get(patricia.Prefix(key))
	if item == nil {
		return nil, false
	}
	e, ok := item.(*entry)
	return e, ok
}

// split cleans path into non-blank, trimmed segments.
func split(path string) ([]string, error) {
	raw := strings.Split(path, Separator)
	segments := raw[:0]
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPath, path)
	}
	return segments, nil
}
