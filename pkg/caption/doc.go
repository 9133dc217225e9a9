// Package caption implements the caption transformation engine behind
// capdrop: separator-based tokenization, keep-token resolution, seeded
// dropout and shuffle transforms, a bounded step simulator, and the
// "Wolf Caption" sentence-boundary rewriter.
//
// # Design
//
// Everything here is a pure function over in-memory strings. There is no
// I/O, no persistence, and no shared mutable state; concurrent calls are
// independent because each call constructs its own random stream. The
// engine is total over its input domain: degenerate configuration (rates
// outside [0,1], negative keep counts, empty separator sets) is clamped
// or defaulted, never rejected. Callers driving sliders in a UI should
// never see a hard failure from the engine.
//
// # Reproducibility
//
// Randomness is an injected capability ([RNG]), never process-global.
// When a seed is supplied, every downstream random decision is derived
// from it: composed transforms and multi-step simulations draw sub-seeds
// from the parent stream with [DeriveSeed], so a single top-level seed
// fixes every token kept, every permutation, and every step, bit for bit.
//
// # Pipeline
//
// Raw caption text flows through an optional [RewriteSentenceBoundaries]
// pass, then [Tokenize], then [ResolveKeep], then [Dropout], [Shuffle],
// or [DropoutShuffle], and is re-joined with the primary separator.
// [SimulateSteps] wraps this pipeline to produce a bounded sequence of
// results for visualization, and [Summarize] computes the simple
// statistics the charting frontend consumes.
package caption
