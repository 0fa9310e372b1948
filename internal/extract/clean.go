package extract

import (
	"strings"
	"unicode/utf8"
)

// punctuation kept by CleanText besides word characters and CJK ideographs.
const punctuation = `.,!?;:()"'（）【】“”‘’，。！？；：`

// CleanText collapses whitespace runs to one space, drops runes outside ASCII
// word characters, the CJK Unified Ideographs block and a fixed punctuation
// set, then trims. Other scripts and symbols are lost.
func CleanText(s string) string {
	s = collapse(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func keepRune(r rune) bool {
	if r < utf8.RuneSelf {
		switch {
		case r == ' ' || r == '_':
			return true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return true
		}
		return strings.ContainsRune(punctuation, r)
	}
	if r >= 0x4E00 && r <= 0x9FFF {
		return true
	}
	return strings.ContainsRune(punctuation, r)
}
