package caption

import (
	"slices"
	"strings"
)

// Dropout removes flexible tokens probabilistically and re-joins the
// survivors with the primary separator. Each flexible token costs exactly
// one draw from the stream, in original order; a token survives iff the
// draw is strictly greater than the rate. Draw order is part of the
// seeded reproducibility contract. Fixed tokens from the keep policy
// always survive. An empty or all-whitespace caption returns "".
func Dropout(caption string, opts Options) string {
	opts = opts.normalized()
	if strings.TrimSpace(caption) == "" {
		return ""
	}
	split := opts.resolve(caption)
	kept := dropTokens(split.Flex, opts.Rate, NewRNG(opts.Seed))
	return Join(split.assemble(kept), opts.Separators)
}

// Shuffle permutes the flexible tokens uniformly at random and re-joins.
// Fixed prefix and suffix tokens retain their original order and position.
func Shuffle(caption string, opts Options) string {
	opts = opts.normalized()
	if strings.TrimSpace(caption) == "" {
		return ""
	}
	split := opts.resolve(caption)
	flex := slices.Clone(split.Flex)
	fisherYates(flex, NewRNG(opts.Seed))
	return Join(split.assemble(flex), opts.Separators)
}

// DropoutShuffle applies dropout and then shuffles the survivors.
//
// With a seed, two sub-seeds are derived from a single parent stream (one
// draw each, dropout first) so the combined output is fully determined by
// the one input seed. Without a seed both stages use independent system
// randomness.
//
// Both stages operate on the same resolved keep split, so fixed segments
// survive and stay pinned through the whole composition. For count-based
// keeps this matches applying Shuffle to the Dropout output; for
// marker-based keeps it is the only composition that preserves the pin,
// since the marker does not survive re-joining.
func DropoutShuffle(caption string, opts Options) string {
	opts = opts.normalized()
	if strings.TrimSpace(caption) == "" {
		return ""
	}

	var dropRNG, shufRNG RNG
	if opts.Seed != nil {
		parent := SeededRNG(*opts.Seed)
		dropRNG = SeededRNG(DeriveSeed(parent))
		shufRNG = SeededRNG(DeriveSeed(parent))
	} else {
		dropRNG, shufRNG = SystemRNG(), SystemRNG()
	}

	split := opts.resolve(caption)
	kept := dropTokens(split.Flex, opts.Rate, dropRNG)
	fisherYates(kept, shufRNG)
	return Join(split.assemble(kept), opts.Separators)
}

// dropTokens keeps each token iff a fresh draw exceeds rate.
func dropTokens(tokens []string, rate float64, rng RNG) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if rng() > rate {
			kept = append(kept, tok)
		}
	}
	return kept
}

// fisherYates permutes tokens in place: for i from len-1 down to 1, draw
// j = floor(rng()*(i+1)) and swap elements i and j. Uniform under a
// perfect RNG, reproducible under a seeded one.
func fisherYates(tokens []string, rng RNG) {
	for i := len(tokens) - 1; i >= 1; i-- {
		j := int(rng() * float64(i+1))
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
}
