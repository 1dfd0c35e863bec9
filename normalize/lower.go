package normalize

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToLower lowercases s using locale-invariant rules. Runes outside the Basic
// Multilingual Plane are folded as whole codepoints.
func ToLower(s string) string {
	if isLowerASCII(s) {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

// ToLowerUTF16 lowercases UTF-16 code units. A surrogate pair is decoded to a
// single codepoint, folded and re-encoded, never folded half by half. Unpaired
// surrogates are copied unchanged.
func ToLowerUTF16(units []uint16) []uint16 {
	out := make([]uint16, 0, len(units))
	for i := 0; i < len(units); i++ {
		c := rune(units[i])
		if !utf16.IsSurrogate(c) {
			out = utf16.AppendRune(out, unicode.ToLower(c))
			continue
		}
		if i+1 < len(units) {
			if r := utf16.DecodeRune(c, rune(units[i+1])); r != utf8.RuneError {
				out = utf16.AppendRune(out, unicode.ToLower(r))
				i++
				continue
			}
		}
		out = append(out, units[i])
	}
	return out
}

// lowerRune is the per-rune fold used on the key path.
func lowerRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r
	}
	return unicode.ToLower(r)
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
