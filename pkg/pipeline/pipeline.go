// Package pipeline provides the core transform pipeline for capdrop.
//
// This package connects the pure caption engine to the CLI and HTTP
// service: it normalizes and validates configuration, runs the optional
// Wolf rewrite, dispatches to the engine, computes summary statistics,
// and caches seeded simulation results. By centralizing this logic, CLI
// and API behave identically for the same configuration.
//
// # Usage
//
// Create a Runner and execute a simulation:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Caption:   "a cat, a hat, outdoors",
//	    Operation: "both",
//	    DropoutRate: 0.3,
//	    UseSeed:   true,
//	    Seed:      42,
//	    Steps:     200,
//	}
//	result, err := runner.Simulate(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.MeanTokens)
//
// Run a single transform:
//
//	out, err := runner.Transform(ctx, opts)
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/caption"
	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSteps is the default simulation step count. Intentionally
	// well under caption.MaxSteps so the default UI experience stays
	// snappy; callers can raise it up to the cap.
	DefaultSteps = 100

	// DefaultOperation is applied when a request names no operation.
	DefaultOperation = string(caption.OpDropout)

	// DefaultKeepTokensSeparator is the conventional keep marker.
	DefaultKeepTokensSeparator = caption.KeepMarker

	// resultTTL is the cache TTL for seeded simulation results. Seeded
	// runs are deterministic, so entries never go stale; 0 means no
	// expiration.
	resultTTL = time.Duration(0)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the transform pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Caption             string   `json:"caption"`
	Operation           string   `json:"operation,omitempty"` // dropout|shuffle|both
	DropoutRate         float64  `json:"dropout_rate,omitempty"`
	KeepTokens          int      `json:"keep_tokens,omitempty"`
	KeepTokensSeparator string   `json:"keep_tokens_separator,omitempty"`
	CaptionSeparators   []string `json:"caption_separators,omitempty"`
	Seed                int64    `json:"seed,omitempty"`
	UseSeed             bool     `json:"use_seed,omitempty"`
	WolfCaptions        bool     `json:"wolf_captions,omitempty"`
	Steps               int      `json:"steps,omitempty"`
	Refresh             bool     `json:"refresh,omitempty"` // bypass the result cache
}

// ValidateAndSetDefaults checks fields and applies defaults. Degenerate
// numeric values are clamped rather than rejected so a bad slider value
// never produces a hard failure; only an unknown operation is an error.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Operation == "" {
		o.Operation = DefaultOperation
	}
	if err := errors.ValidateOperation(o.Operation); err != nil {
		return err
	}

	o.DropoutRate = min(max(o.DropoutRate, 0), 1)
	o.KeepTokens = max(o.KeepTokens, 0)
	if o.Steps <= 0 {
		o.Steps = DefaultSteps
	}
	o.Steps = min(o.Steps, caption.MaxSteps)
	if len(o.CaptionSeparators) == 0 {
		o.CaptionSeparators = caption.DefaultSeparators
	}
	return nil
}

// Op returns the engine operation for this configuration.
func (o *Options) Op() caption.Op {
	return caption.Op(o.Operation)
}

// engineOptions converts pipeline configuration into engine options,
// applying the Wolf separator when sentence rewriting is on.
func (o *Options) engineOptions() caption.Options {
	opts := caption.Options{
		Rate:                o.DropoutRate,
		KeepTokens:          o.KeepTokens,
		KeepTokensSeparator: o.KeepTokensSeparator,
		Separators:          o.CaptionSeparators,
	}
	if o.WolfCaptions {
		opts.Separators = append(append([]string{}, opts.Separators...), caption.WolfSeparator)
	}
	if o.UseSeed {
		seed := o.Seed
		opts.Seed = &seed
	}
	return opts
}

// prepared returns the caption after optional Wolf rewriting.
func (o *Options) prepared() string {
	if o.WolfCaptions {
		return caption.RewriteSentenceBoundaries(o.Caption)
	}
	return o.Caption
}

// resultKeyOpts returns cache key options for this configuration.
func (o *Options) resultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Caption:             o.Caption,
		Operation:           o.Operation,
		Rate:                o.DropoutRate,
		KeepTokens:          o.KeepTokens,
		KeepTokensSeparator: o.KeepTokensSeparator,
		Separators:          o.CaptionSeparators,
		Seed:                o.Seed,
		WolfCaptions:        o.WolfCaptions,
		Steps:               o.Steps,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a simulation: ordered step results plus the
// statistics the charting frontend consumes.
type Result struct {
	Steps  []string      `json:"steps"`
	Stats  caption.Stats `json:"stats"`
	Cached bool          `json:"cached,omitempty"`
}

// =============================================================================
// Runner
// =============================================================================

// Runner executes the transform pipeline with caching and logging.
type Runner struct {
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables result
// caching; a nil logger discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}
}

// Transform runs a single dropout/shuffle/both transform and returns the
// re-joined caption.
func (r *Runner) Transform(ctx context.Context, opts Options) (string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}

	start := time.Now()
	observability.Transform().OnTransformStart(ctx, opts.Operation, len(opts.Caption))

	out := caption.Apply(opts.prepared(), opts.Op(), opts.engineOptions())

	observability.Transform().OnTransformComplete(ctx, opts.Operation, time.Since(start), nil)
	r.logger.Debug("transform complete", "op", opts.Operation, "duration", time.Since(start))
	return out, nil
}

// Simulate runs the bounded step simulator and summarizes the results.
//
// Seeded simulations are deterministic, so their results are cached by a
// hash of the full configuration; Refresh bypasses the lookup. Unseeded
// simulations are never cached.
func (r *Runner) Simulate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var key string
	if opts.UseSeed {
		key = r.keyer.ResultKey(opts.resultKeyOpts())
		if !opts.Refresh {
			if result, ok := r.lookup(ctx, key); ok {
				result.Cached = true
				return result, nil
			}
		}
	}

	start := time.Now()
	observability.Transform().OnSimulateStart(ctx, opts.Operation, opts.Steps)

	steps := caption.SimulateSteps(opts.prepared(), opts.Op(), opts.engineOptions(), opts.Steps)
	result := &Result{
		Steps: steps,
		Stats: caption.Summarize(steps, opts.CaptionSeparators),
	}

	observability.Transform().OnSimulateComplete(ctx, opts.Operation, opts.Steps, time.Since(start), nil)
	r.logger.Debug("simulation complete",
		"op", opts.Operation,
		"steps", opts.Steps,
		"duration", time.Since(start))

	if key != "" {
		r.store(ctx, key, result)
	}
	return result, nil
}

// lookup fetches a cached result. Cache failures degrade to a miss.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("result cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("result cache entry corrupt", "err", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	return &result, true
}

// store writes a result to the cache. Failures are logged, not returned;
// caching is an optimization, never a correctness concern.
func (r *Runner) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, resultTTL); err != nil {
		r.logger.Warn("result cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(data))
}
