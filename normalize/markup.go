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

package normalize

import (
	"strings"
	"unicode/utf8"
)

// Markers delimit a markup span. Everything from Begin up to and including
// the next End is markup.
type Markers struct {
	Begin rune
	End   rune
}

// DefaultMarkers matches angle-bracket tags.
var DefaultMarkers = Markers{Begin: '<', End: '>'}

// Valid reports whether m can be used for stripping.
func (m Markers) Valid() bool {
	return m.Begin > 0 && m.End > 0 && m.Begin != m.End &&
		utf8.ValidRune(m.Begin) && utf8.ValidRune(m.End)
}

// StripMarkup removes angle-bracket tag spans from s.
func StripMarkup(s string) string {
	return StripMarkupWith(s, DefaultMarkers)
}

// StripMarkupWith removes every span from m.Begin to the next m.End in a single
// left-to-right pass.
//
// A begin marker without a matching end marker is not markup: it and the rest
// of the string are copied unchanged. Re-applying StripMarkupWith to the
// output therefore leaves that tail alone.
func StripMarkupWith(s string, m Markers) string {
	if !m.Valid() || strings.IndexRune(s, m.Begin) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		next := strings.IndexRune(s[i:], m.Begin)
		if next < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+next])
		i += next

		tagStart := i + utf8.RuneLen(m.Begin)
		end := strings.IndexRune(s[tagStart:], m.End)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		i = tagStart + end + utf8.RuneLen(m.End)
	}

	return b.String()
}
