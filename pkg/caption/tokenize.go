package caption

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeparators is the separator set used when the caller supplies
// none. Comma-separated tag lists are the dominant caption format in
// text-to-image training data.
var DefaultSeparators = []string{","}

// Tokenize splits caption into trimmed, non-empty tokens.
//
// Separators are applied in order and compose cumulatively: every token
// produced by one separator is itself split by the next, so the result is
// the same set of fragments as nesting the splits by hand. After all
// splits, each fragment is whitespace-trimmed and empty fragments are
// dropped. An empty or all-whitespace caption yields no tokens.
func Tokenize(caption string, separators []string) []string {
	parts := []string{caption}
	for _, sep := range normalizeSeparators(separators) {
		next := make([]string, 0, len(parts))
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Primary returns the separator used to re-join transformed tokens: the
// first entry of the normalized separator set.
func Primary(separators []string) string {
	return normalizeSeparators(separators)[0]
}

// Join re-serializes tokens with the primary separator. A single space
// follows the separator unless it already ends in whitespace, so a comma
// separator produces "a, b, c". Which separator originally produced a
// given boundary is not retained; re-serialization is deliberately lossy.
func Join(tokens []string, separators []string) string {
	sep := Primary(separators)
	if last, _ := utf8.DecodeLastRuneInString(sep); !unicode.IsSpace(last) {
		sep += " "
	}
	return strings.Join(tokens, sep)
}

// normalizeSeparators drops empty entries and falls back to
// DefaultSeparators when nothing usable remains.
func normalizeSeparators(separators []string) []string {
	seps := make([]string, 0, len(separators))
	for _, s := range separators {
		if s != "" {
			seps = append(seps, s)
		}
	}
	if len(seps) == 0 {
		return DefaultSeparators
	}
	return seps
}
