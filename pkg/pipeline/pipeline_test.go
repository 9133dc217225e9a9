package pipeline

import (
	"context"
	"slices"
	"testing"

	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/caption"
	"github.com/capdrop/capdrop/pkg/errors"
)

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Caption: "a, b"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Operation != DefaultOperation {
		t.Errorf("operation = %q, want %q", opts.Operation, DefaultOperation)
	}
	if opts.Steps != DefaultSteps {
		t.Errorf("steps = %d, want %d", opts.Steps, DefaultSteps)
	}
	if !slices.Equal(opts.CaptionSeparators, caption.DefaultSeparators) {
		t.Errorf("separators = %v, want %v", opts.CaptionSeparators, caption.DefaultSeparators)
	}
}

func TestOptionsValidateClamps(t *testing.T) {
	opts := Options{
		Caption:     "a, b",
		DropoutRate: 1.7,
		KeepTokens:  -3,
		Steps:       caption.MaxSteps + 500,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DropoutRate != 1 {
		t.Errorf("rate = %v, want 1", opts.DropoutRate)
	}
	if opts.KeepTokens != 0 {
		t.Errorf("keepTokens = %d, want 0", opts.KeepTokens)
	}
	if opts.Steps != caption.MaxSteps {
		t.Errorf("steps = %d, want %d", opts.Steps, caption.MaxSteps)
	}
}

func TestOptionsValidateRejectsUnknownOperation(t *testing.T) {
	opts := Options{Caption: "a", Operation: "reverse"}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidOperation {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOperation)
	}
}

func TestTransformDropoutRateOne(t *testing.T) {
	runner := NewRunner(nil, nil)
	out, err := runner.Transform(context.Background(), Options{
		Caption:     "a, b, c",
		Operation:   "dropout",
		DropoutRate: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}

func TestTransformSeededDeterministic(t *testing.T) {
	runner := NewRunner(nil, nil)
	opts := Options{
		Caption:     "red, green, blue, yellow, purple",
		Operation:   "both",
		DropoutRate: 0.4,
		UseSeed:     true,
		Seed:        42,
	}
	first, err := runner.Transform(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := runner.Transform(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("seeded transform not deterministic: %q vs %q", first, second)
	}
}

func TestTransformWolfCaptions(t *testing.T) {
	runner := NewRunner(nil, nil)
	out, err := runner.Transform(context.Background(), Options{
		Caption:      "A dog runs. A cat sleeps.",
		Operation:    "dropout",
		DropoutRate:  0,
		WolfCaptions: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rate 0 keeps every token, so the output is the rewritten caption
	// re-split on ".," and re-joined.
	want := "A dog runs., A cat sleeps."
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSimulateStepsAndStats(t *testing.T) {
	runner := NewRunner(nil, nil)
	result, err := runner.Simulate(context.Background(), Options{
		Caption:     "a, b, c, d",
		Operation:   "dropout",
		DropoutRate: 0.5,
		UseSeed:     true,
		Seed:        7,
		Steps:       25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Steps) != 25 {
		t.Fatalf("len(steps) = %d, want 25", len(result.Steps))
	}
	if result.Stats.Steps != 25 {
		t.Errorf("stats.Steps = %d, want 25", result.Stats.Steps)
	}
	if result.Cached {
		t.Error("fresh simulation reported as cached")
	}
	if result.Stats.MaxTokens > 4 {
		t.Errorf("maxTokens = %d, want <= 4", result.Stats.MaxTokens)
	}
}

func TestSimulateSeededResultCached(t *testing.T) {
	runner := NewRunner(cache.NewMemoryCache(), nil)
	opts := Options{
		Caption:   "a, b, c, d, e",
		Operation: "shuffle",
		UseSeed:   true,
		Seed:      42,
		Steps:     10,
	}

	first, err := runner.Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Error("first run reported as cached")
	}

	second, err := runner.Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Error("second run not served from cache")
	}
	if !slices.Equal(first.Steps, second.Steps) {
		t.Errorf("cached steps differ: %v vs %v", second.Steps, first.Steps)
	}

	// Refresh bypasses the lookup but recomputes identically.
	opts.Refresh = true
	third, err := runner.Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Cached {
		t.Error("refreshed run reported as cached")
	}
	if !slices.Equal(first.Steps, third.Steps) {
		t.Error("refresh changed a seeded result")
	}
}

func TestSimulateUnseededNotCached(t *testing.T) {
	c := cache.NewMemoryCache()
	runner := NewRunner(c, nil)
	_, err := runner.Simulate(context.Background(), Options{
		Caption:     "a, b, c",
		Operation:   "dropout",
		DropoutRate: 0.5,
		Steps:       5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("cache has %d entries after unseeded run, want 0", c.Len())
	}
}
