package match

import "github.com/poiesic/treesearch/tree"

// Monitor provides hooks to observe a pass.
// Hooks run on the goroutine executing the pass.
type Monitor interface {
	Start(query string)
	Matched(item *tree.Item, rank tree.Rank)
	Finish(result Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string) {}

func (n *noopMonitor) Matched(_ *tree.Item, _ tree.Rank) {}

func (n *noopMonitor) Finish(_ Result) {}
