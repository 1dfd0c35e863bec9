package session

import (
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/tree"
)

// passCollector writes one pass's hits into the session results node. An
// insert is refused once the session has moved on to a newer generation.
type passCollector struct {
	session    *Session
	generation uint64
	node       match.NodeCollector
	count      int
}

var _ match.Collector = (*passCollector)(nil)

func (c *passCollector) Collect(item *tree.Item, rank tree.Rank) bool {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if c.session.generation != c.generation {
		return false
	}
	if !c.node.Collect(item, rank) {
		return false
	}
	c.count++
	return true
}

// Len is only called from the pass goroutine, which is the only writer of
// count.
func (c *passCollector) Len() int {
	return c.count
}
