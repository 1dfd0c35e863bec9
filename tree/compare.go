package tree

import (
	"cmp"
	"strings"
	"unicode/utf8"
)

// CompareFunc orders two items, returning a negative number when a sorts
// before b, zero when they tie and a positive number otherwise.
type CompareFunc func(a, b *Item) int

// CompareByText orders items by display text. A separator ties with
// everything.
func CompareByText(a, b *Item) int {
	if a.separator || b.separator {
		return 0
	}
	return strings.Compare(a.content.Text, b.content.Text)
}

// CompareByRank orders matched items by match index, then by label length in
// runes. Unmatched items sort after every match.
func CompareByRank(a, b *Item) int {
	if c := cmp.Compare(a.rank.Index, b.rank.Index); c != 0 {
		return c
	}
	return cmp.Compare(utf8.RuneCountInString(a.content.Text), utf8.RuneCountInString(b.content.Text))
}
