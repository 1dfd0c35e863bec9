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

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsNoise reports whether r is dropped from alternate keys.
func IsNoise(r rune) bool {
	switch r {
	case ' ', '_', '-', '\t', '\n', '\r', '.':
		return true
	}
	return false
}

// AlternateKey builds the fuzzy matching key for s using DefaultMarkers.
func AlternateKey(s string, stripMarkup bool) string {
	return AlternateKeyWith(s, stripMarkup, DefaultMarkers)
}

// AlternateKeyWith builds the fuzzy matching key for s: markup spans removed
// when stripMarkup is set, every rune lowercased, noise runes deleted.
// AlternateKeyWith(s, true, m) equals AlternateKeyWith(StripMarkupWith(s, m), false, m).
func AlternateKeyWith(s string, stripMarkup bool, m Markers) string {
	return NewKeyBuilder(m).Key(s, stripMarkup)
}

// Index returns the byte offset of the first contiguous occurrence of needle
// in haystack, or -1. An empty needle matches at 0.
func Index(haystack, needle string) int {
	return strings.Index(haystack, needle)
}

// KeyBuilder produces keys into a reusable buffer. It is not safe for
// concurrent use.
type KeyBuilder struct {
	markers Markers
	buf     []byte
	lower   cases.Caser
}

// NewKeyBuilder creates a KeyBuilder stripping spans delimited by m.
func NewKeyBuilder(m Markers) *KeyBuilder {
	return &KeyBuilder{
		markers: m,
		buf:     make([]byte, 0, 64),
		lower:   cases.Lower(language.Und),
	}
}

// Key returns the alternate key for s. Markup handling matches StripMarkupWith:
// once an unterminated begin marker is seen the remainder is treated as text.
func (k *KeyBuilder) Key(s string, stripMarkup bool) string {
	strip := stripMarkup && k.markers.Valid()
	buf := k.buf[:0]

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if strip && r == k.markers.Begin {
			tagStart := i + size
			if end := strings.IndexRune(s[tagStart:], k.markers.End); end >= 0 {
				i = tagStart + end + utf8.RuneLen(k.markers.End)
				continue
			}
			strip = false
		}

		if r == utf8.RuneError && size == 1 {
			buf = append(buf, s[i])
			i++
			continue
		}
		i += size

		if IsNoise(r) {
			continue
		}
		buf = utf8.AppendRune(buf, lowerRune(r))
	}

	k.buf = buf
	return string(buf)
}

// Lower lowercases s like ToLower, reusing the builder's caser.
func (k *KeyBuilder) Lower(s string) string {
	if isLowerASCII(s) {
		return s
	}
	return k.lower.String(s)
}
