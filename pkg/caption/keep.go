package caption

import "strings"

// Split partitions a caption's tokens into a fixed prefix, a flexible
// body, and a fixed suffix. Fixed tokens are never dropped or shuffled
// and are re-emitted in their original order and position.
type Split struct {
	Prefix []string
	Flex   []string
	Suffix []string
}

// ResolveKeep determines which tokens are protected from dropout and
// shuffle.
//
// When keepSep is non-empty and occurs in the raw caption, the caption is
// split on it: the first segment becomes the fixed prefix, the second the
// flexible body, and a third segment (after a second occurrence of the
// marker) becomes a fixed suffix. Each segment is tokenized with the same
// separator set. Marker-based and count-based keeps are mutually
// exclusive; marker presence wins and keepTokens is ignored.
//
// Otherwise keepTokens is a positional count: the first keepTokens tokens
// form the fixed prefix and the remainder is flexible. Negative counts
// are treated as zero; counts beyond the token count protect everything.
func ResolveKeep(caption string, keepTokens int, keepSep string, separators []string) Split {
	if keepSep != "" && strings.Contains(caption, keepSep) {
		segs := strings.SplitN(caption, keepSep, 3)
		s := Split{Prefix: Tokenize(segs[0], separators)}
		if len(segs) > 1 {
			s.Flex = Tokenize(segs[1], separators)
		}
		if len(segs) > 2 {
			s.Suffix = Tokenize(segs[2], separators)
		}
		return s
	}

	tokens := Tokenize(caption, separators)
	n := min(max(keepTokens, 0), len(tokens))
	return Split{Prefix: tokens[:n], Flex: tokens[n:]}
}

// assemble recombines the split with a transformed flexible body:
// prefix, then flex, then suffix.
func (s Split) assemble(flex []string) []string {
	out := make([]string, 0, len(s.Prefix)+len(flex)+len(s.Suffix))
	out = append(out, s.Prefix...)
	out = append(out, flex...)
	out = append(out, s.Suffix...)
	return out
}
