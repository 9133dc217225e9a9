package caption

// Op identifies a transform kind.
type Op string

// Supported transform kinds.
const (
	OpDropout Op = "dropout"
	OpShuffle Op = "shuffle"
	OpBoth    Op = "both"
)

// Valid reports whether op names a known transform.
func (op Op) Valid() bool {
	switch op {
	case OpDropout, OpShuffle, OpBoth:
		return true
	}
	return false
}

// Options configures a transform call. The zero value is usable: default
// separators, no keep protection, rate 0, unseeded randomness.
type Options struct {
	// Rate is the dropout probability per flexible token, clamped to [0,1].
	Rate float64

	// KeepTokens protects the first N tokens positionally. Ignored when
	// KeepTokensSeparator matches the caption.
	KeepTokens int

	// KeepTokensSeparator marks fixed prefix/suffix segments in the raw
	// caption (see ResolveKeep).
	KeepTokensSeparator string

	// Separators is the ordered separator set; empty means DefaultSeparators.
	Separators []string

	// Seed fixes all randomness when non-nil.
	Seed *int64
}

// normalized clamps degenerate values so the engine stays total over its
// input domain.
func (o Options) normalized() Options {
	o.Rate = min(max(o.Rate, 0), 1)
	o.KeepTokens = max(o.KeepTokens, 0)
	return o
}

// resolve tokenizes the caption and applies the keep policy.
func (o Options) resolve(caption string) Split {
	return ResolveKeep(caption, o.KeepTokens, o.KeepTokensSeparator, o.Separators)
}

// withSeed returns a copy of o seeded with s.
func (o Options) withSeed(s int64) Options {
	o.Seed = &s
	return o
}
