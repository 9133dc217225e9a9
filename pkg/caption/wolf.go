package caption

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// WolfSeparator is the synthetic separator inserted after sentence-ending
// periods by RewriteSentenceBoundaries. Adding it to the active separator
// set makes downstream tokenization split free text into sentence-level
// tokens as if they were ordinary tags.
const WolfSeparator = ".,"

// KeepMarker delimits a fixed tag prefix inside a caption. The rewriter
// leaves everything up to and including the marker untouched.
const KeepMarker = "|||"

// abbreviations are masked before boundary detection so their periods are
// never mistaken for sentence ends. Longer forms must win over their own
// prefixes (U.S.A. before U.S.), which the pattern builder handles by
// sorting.
var abbreviations = []string{
	// Titles
	"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Rev.", "Gen.", "Capt.",
	// Latin
	"etc.", "vs.", "e.g.", "i.e.", "cf.", "al.",
	// Time
	"a.m.", "p.m.",
	// Geographic
	"U.S.A.", "U.S.", "U.K.", "E.U.",
	// Academic
	"Ph.D.", "B.A.", "M.A.", "B.Sc.", "M.Sc.", "D.D.S.",
	// Other
	"Inc.", "Ltd.", "Co.", "Corp.", "Jr.", "Sr.", "St.", "Ave.", "No.",
}

var (
	abbrPattern    = buildAbbrPattern()
	decimalPattern = regexp.MustCompile(`\d+\.\d+`)

	// A period terminates a sentence when followed by whitespace and an
	// uppercase letter. End-of-string periods are handled separately.
	boundaryPattern = regexp.MustCompile(`\.(\s+\p{Lu})`)
	trailingPattern = regexp.MustCompile(`\.$`)
)

// buildAbbrPattern compiles one alternation over all abbreviations, longest
// first so prefixes never shadow longer forms. Every entry passes through
// QuoteMeta; user-extendable lists must never inject regex metacharacters.
func buildAbbrPattern() *regexp.Regexp {
	quoted := make([]string, len(abbreviations))
	for i, a := range abbreviations {
		quoted[i] = regexp.QuoteMeta(a)
	}
	slices.SortFunc(quoted, func(a, b string) int { return len(b) - len(a) })
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// placeholder returns a collision-free masking token for index i. The
// unit-separator control character cannot appear in normal caption text,
// so restoration is exact and deterministic.
func placeholder(i int) string {
	return "\x1f" + strconv.Itoa(i) + "\x1f"
}

// RewriteSentenceBoundaries inserts WolfSeparator after periods that
// terminate a sentence, without corrupting abbreviations or decimal
// numbers.
//
// A KeepMarker-delimited tag prefix, if present, is split off untouched.
// Abbreviations and decimals in the remainder are masked with indexed
// placeholders, boundary periods (period + whitespace + uppercase letter,
// or period at end of string) gain a trailing comma, and the placeholders
// are restored. A period already followed by a comma is left alone.
func RewriteSentenceBoundaries(caption string) string {
	prefix := ""
	body := caption
	if i := strings.Index(caption, KeepMarker); i >= 0 {
		prefix = caption[:i+len(KeepMarker)]
		body = caption[i+len(KeepMarker):]
	}

	var masked []string
	mask := func(p *regexp.Regexp, s string) string {
		return p.ReplaceAllStringFunc(s, func(m string) string {
			masked = append(masked, m)
			return placeholder(len(masked) - 1)
		})
	}
	body = mask(abbrPattern, body)
	body = mask(decimalPattern, body)

	body = boundaryPattern.ReplaceAllString(body, WolfSeparator+"$1")
	body = trailingPattern.ReplaceAllString(body, WolfSeparator)

	for i, original := range masked {
		body = strings.Replace(body, placeholder(i), original, 1)
	}
	return prefix + body
}
