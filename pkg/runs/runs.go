// Package runs persists simulation run records so the visualizer frontend
// can page back through earlier experiments.
//
// The transform engine itself keeps no state; only the HTTP service
// records runs, and only when a store is configured. Implementations:
//   - file: JSON files under a local data directory (default)
//   - mongo: shared store for service deployments
//
// # Usage
//
// Create a store and record a run:
//
//	store, err := runs.NewFileStore("")  // Uses ~/.local/share/capdrop/runs/
//	if err != nil {
//	    return err
//	}
//	run := runs.New(opts, results)
//	if err := store.Save(ctx, run); err != nil {
//	    return err
//	}
package runs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/capdrop/capdrop/pkg/caption"
	"github.com/capdrop/capdrop/pkg/errors"
)

// Run is one recorded simulation: the request that produced it, the step
// results, and their summary statistics.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	Caption   string        `json:"caption" bson:"caption"`
	Operation string        `json:"operation" bson:"operation"`
	Options   RunOptions    `json:"options" bson:"options"`
	Steps     []string      `json:"steps" bson:"steps"`
	Stats     caption.Stats `json:"stats" bson:"stats"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// RunOptions echoes the configuration a run was produced with.
type RunOptions struct {
	DropoutRate         float64  `json:"dropout_rate" bson:"dropout_rate"`
	KeepTokens          int      `json:"keep_tokens" bson:"keep_tokens"`
	KeepTokensSeparator string   `json:"keep_tokens_separator,omitempty" bson:"keep_tokens_separator,omitempty"`
	Separators          []string `json:"caption_separators,omitempty" bson:"caption_separators,omitempty"`
	Seed                int64    `json:"seed,omitempty" bson:"seed,omitempty"`
	UseSeed             bool     `json:"use_seed" bson:"use_seed"`
	WolfCaptions        bool     `json:"wolf_captions" bson:"wolf_captions"`
	StepCount           int      `json:"step_count" bson:"step_count"`
}

// New builds a Run with a fresh ID and the current timestamp.
func New(captionText, operation string, opts RunOptions, steps []string, stats caption.Stats) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Caption:   captionText,
		Operation: operation,
		Options:   opts,
		Steps:     steps,
		Stats:     stats,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for run persistence backends.
type Store interface {
	// Save stores a run.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns a RUN_NOT_FOUND error when the
	// run does not exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs, newest first, at most limit.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NotFound builds the standard error for a missing run ID.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
}

// DefaultListLimit bounds List when callers pass a non-positive limit.
const DefaultListLimit = 50
