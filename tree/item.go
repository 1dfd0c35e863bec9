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

package tree

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// SeparatorHeight is the number of rows a separator occupies in a list.
const SeparatorHeight = 1

// Content is what a picker row displays for an item.
type Content struct {
	Text    string
	Icon    string // Host-defined icon handle, empty for none
	Tooltip string
}

// Rank locates a match inside an item's normalized label.
type Rank struct {
	Index  int // Offset of the match; math.MaxInt when unmatched
	Length int // Length of the matched query key
}

// Unmatched is the rank of an item that did not match the active query.
// Its Index is larger than any real offset so unmatched items sort last.
var Unmatched = Rank{Index: math.MaxInt}

// Matched reports whether r refers to a real match.
func (r Rank) Matched() bool {
	return r.Index != math.MaxInt
}

// Item is a node in a searchable hierarchy.
type Item struct {
	id           ID
	content      Content
	interactable bool
	selected     bool
	separator    bool
	rank         Rank
	value        any
	children     []*Item
}

// NewItem creates an interactable item. When capacity is zero no child
// storage is allocated until the first child is added.
func NewItem(content Content, capacity int) *Item {
	it := &Item{
		content:      content,
		interactable: true,
		rank:         Unmatched,
	}
	if capacity > 0 {
		it.children = make([]*Item, 0, capacity)
	}
	return it
}

// NewLeaf creates a childless item labeled text.
func NewLeaf(text string) *Item {
	return NewItem(Content{Text: text}, 0)
}

// NewSeparator creates a non-interactive divider. Separators cannot hold
// children; every child mutator on them returns ErrInvalidOperation.
func NewSeparator() *Item {
	return &Item{
		separator: true,
		rank:      Unmatched,
	}
}

// ID returns the item's identifier, zero when unset.
func (it *Item) ID() ID { return it.id }

// SetID assigns the item's identifier.
func (it *Item) SetID(id ID) { it.id = id }

// Content returns the display content.
func (it *Item) Content() Content { return it.content }

// SetContent replaces the display content.
func (it *Item) SetContent(c Content) { it.content = c }

// Text returns the display text.
func (it *Item) Text() string { return it.content.Text }

// Interactable reports whether the item can be chosen.
func (it *Item) Interactable() bool { return it.interactable }

// SetInteractable enables or disables choosing the item. Separators stay
// non-interactive.
func (it *Item) SetInteractable(v bool) {
	if it.separator {
		return
	}
	it.interactable = v
}

// Selected reports the item's selection state.
func (it *Item) Selected() bool { return it.selected }

// SetSelected sets the item's selection state.
func (it *Item) SetSelected(v bool) { it.selected = v }

// IsSeparator reports whether the item is the separator variant.
func (it *Item) IsSeparator() bool { return it.separator }

// IsLeaf reports whether the item has no children.
func (it *Item) IsLeaf() bool { return len(it.children) == 0 }

// Rank returns the transient match rank.
func (it *Item) Rank() Rank { return it.rank }

// SetRank records the match rank for the active query.
func (it *Item) SetRank(r Rank) { it.rank = r }

// ResetRank marks the item as unmatched.
func (it *Item) ResetRank() { it.rank = Unmatched }

// Value returns the payload bound to the item.
func (it *Item) Value() any { return it.value }

// SetValue binds an arbitrary payload to the item.
func (it *Item) SetValue(v any) { it.value = v }

// ValueOf returns the item's payload when it holds a T.
func ValueOf[T any](it *Item) (T, bool) {
	var zero T
	if it == nil {
		return zero, false
	}
	v, ok := it.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Len returns the number of children.
func (it *Item) Len() int { return len(it.children) }

// Child returns the i-th child.
func (it *Item) Child(i int) *Item { return it.children[i] }

// Children returns the child list. The slice is owned by the item and must
// not be modified by the caller.
func (it *Item) Children() []*Item { return it.children }

// Add appends child.
func (it *Item) Add(child *Item) error {
	if err := it.checkMutable(child); err != nil {
		return err
	}
	it.children = append(it.children, child)
	return nil
}

// Insert places child at index, shifting later children right.
func (it *Item) Insert(index int, child *Item) error {
	if err := it.checkMutable(child); err != nil {
		return err
	}
	if index < 0 || index > len(it.children) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, len(it.children))
	}
	it.children = slices.Insert(it.children, index, child)
	return nil
}

// Remove deletes the first child that is child (by identity) and reports
// whether one was found.
func (it *Item) Remove(child *Item) (bool, error) {
	if err := it.checkMutable(child); err != nil {
		return false, err
	}
	i := slices.Index(it.children, child)
	if i < 0 {
		return false, nil
	}
	it.children = slices.Delete(it.children, i, i+1)
	return true, nil
}

// Clear removes all children. The backing storage is kept for reuse.
func (it *Item) Clear() error {
	if it.separator {
		return fmt.Errorf("%w: separators have no children", ErrInvalidOperation)
	}
	clear(it.children)
	it.children = it.children[:0]
	return nil
}

// InsertSorted inserts child after every sibling that does not compare
// greater than it, keeping an already sorted child list sorted. Children
// that compare equal keep their arrival order.
func (it *Item) InsertSorted(child *Item, cmp CompareFunc) error {
	if err := it.checkMutable(child); err != nil {
		return err
	}
	if cmp == nil {
		cmp = CompareByText
	}
	i := sort.Search(len(it.children), func(i int) bool {
		return cmp(it.children[i], child) > 0
	})
	it.children = slices.Insert(it.children, i, child)
	return nil
}

// Sort orders the immediate children with cmp, or CompareByText when cmp is
// nil. Separators stay in place: each run of children between separators is
// sorted on its own, stably.
func (it *Item) Sort(cmp CompareFunc) {
	if cmp == nil {
		cmp = CompareByText
	}
	start := 0
	for i, child := range it.children {
		if child.separator {
			slices.SortStableFunc(it.children[start:i], cmp)
			start = i + 1
		}
	}
	slices.SortStableFunc(it.children[start:], cmp)
}

// SortAll sorts the children of it and of every descendant. Each node's
// list is sorted independently; nothing is flattened.
func (it *Item) SortAll(cmp CompareFunc) {
	it.Sort(cmp)
	for _, child := range it.children {
		child.SortAll(cmp)
	}
}

// Walk visits it and its descendants in pre-order. Returning false from fn
// skips the visited item's children.
func (it *Item) Walk(fn func(item *Item, depth int) bool) {
	it.walk(fn, 0)
}

func (it *Item) walk(fn func(*Item, int) bool, depth int) {
	if !fn(it, depth) {
		return
	}
	for _, child := range it.children {
		child.walk(fn, depth+1)
	}
}

// Leaves counts the non-separator leaves below and including it.
func (it *Item) Leaves() int {
	n := 0
	it.Walk(func(item *Item, _ int) bool {
		if item.IsLeaf() && !item.separator {
			n++
		}
		return true
	})
	return n
}

// Equal reports value equality: same content, same selection state and the
// same child list (identical backing storage and length, or both empty).
// Any two separators are equal.
func (it *Item) Equal(other *Item) bool {
	if it == other {
		return true
	}
	if it == nil || other == nil {
		return false
	}
	if it.separator || other.separator {
		return it.separator && other.separator
	}
	if it.content != other.content || it.selected != other.selected {
		return false
	}
	if len(it.children) != len(other.children) {
		return false
	}
	return len(it.children) == 0 || &it.children[0] == &other.children[0]
}

func (it *Item) String() string {
	if it.separator {
		return "----"
	}
	return it.content.Text
}

func (it *Item) checkMutable(child *Item) error {
	if it.separator {
		return fmt.Errorf("%w: separators cannot have children", ErrInvalidOperation)
	}
	if child == nil {
		return ErrNilItem
	}
	return nil
}
