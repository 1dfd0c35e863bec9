package match

import "github.com/poiesic/treesearch/tree"

// Collector receives the hits of a pass.
type Collector interface {
	// Collect stores item with its rank. Returning false ends the pass as
	// canceled without storing anything further.
	Collect(item *tree.Item, rank tree.Rank) bool

	// Len returns the number of items collected so far.
	Len() int
}

// NodeCollector stores hits as children of Node, ranked when Sorted is set.
// It is not safe for concurrent use.
type NodeCollector struct {
	Node   *tree.Item
	Sorted bool
}

var _ Collector = (*NodeCollector)(nil)

func (c *NodeCollector) Collect(item *tree.Item, rank tree.Rank) bool {
	item.SetRank(rank)
	var err error
	if c.Sorted {
		err = c.Node.InsertSorted(item, tree.CompareByRank)
	} else {
		err = c.Node.Add(item)
	}
	return err == nil
}

func (c *NodeCollector) Len() int {
	return c.Node.Len()
}
