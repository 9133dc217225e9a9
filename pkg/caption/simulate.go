package caption

// MaxSteps caps the number of simulation steps per call. The simulator
// runs synchronously and cannot be aborted mid-flight, so the cap is the
// sole bound on per-call CPU work regardless of the requested count.
const MaxSteps = 1000

// Apply runs a single transform of the given kind. Unknown kinds fall
// back to dropout.
func Apply(caption string, op Op, opts Options) string {
	switch op {
	case OpShuffle:
		return Shuffle(caption, opts)
	case OpBoth:
		return DropoutShuffle(caption, opts)
	default:
		return Dropout(caption, opts)
	}
}

// SimulateSteps invokes a transform repeatedly and returns the results in
// step order. The effective step count is min(steps, MaxSteps); negative
// counts yield no steps.
//
// With a seed, one top-level stream is established and each step's
// sub-seed is drawn from it in order, so the whole sequence is
// reproducible from the single seed and independent of timing. Without a
// seed, each step uses independent system randomness. Results are
// recomputed from scratch on every call; nothing is cached here.
func SimulateSteps(caption string, op Op, opts Options, steps int) []string {
	n := min(max(steps, 0), MaxSteps)
	results := make([]string, 0, n)

	var parent RNG
	if opts.Seed != nil {
		parent = SeededRNG(*opts.Seed)
	}

	for range n {
		stepOpts := opts
		stepOpts.Seed = nil
		if parent != nil {
			stepOpts = stepOpts.withSeed(DeriveSeed(parent))
		}
		results = append(results, Apply(caption, op, stepOpts))
	}
	return results
}
