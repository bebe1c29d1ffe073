package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultGroupSize is the number of characters per output group.
const DefaultGroupSize = 5

// Group splits s into groups of n characters separated by single spaces.
// The last group may be shorter. n <= 0 returns s unchanged.
func Group(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/n)
	for i, r := range runes {
		if i > 0 && i%n == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Prepare returns a message line ready for conversion: NFC-normalized with
// all whitespace removed.
func Prepare(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, norm.NFC.String(line))
}
