package fsutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maximum file name length, in bytes
const maxNameLen = 200

// invalidFileRunes matches characters that are not allowed in file names,
// \x00-\x1F being control characters
var invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)

// multiSpace collapses whitespace runs.
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename turns a lesson or transcript title into a usable file name:
// ":" becomes "-", other forbidden characters become spaces, whitespace is
// collapsed, trailing dots are dropped and the length is capped.
// An empty result falls back on "untitled".
func SanitizeFilename(name string) string {
	if name == "" {
		return "untitled"
	}

	name = strings.ReplaceAll(name, ":", "-")
	clean := invalidFileRunes.ReplaceAllString(name, " ")
	clean = strings.TrimSpace(clean)
	clean = multiSpace.ReplaceAllString(clean, " ")
	clean = strings.TrimRight(clean, ".")

	if clean == "" {
		return "untitled"
	}

	if len(clean) > maxNameLen {
		clean = truncateRunes(clean, maxNameLen)
	}

	return CapitalizeFirst(clean)
}

// CapitalizeFirst upper-cases the first rune of s and leaves the rest alone.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
