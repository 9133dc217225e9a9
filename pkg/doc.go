// Package pkg provides the core libraries for capdrop caption augmentation.
//
// # Overview
//
// Capdrop previews how token dropout and shuffle augmentation rewrite
// image-training captions before an expensive training run. The pkg
// directory is organized into a few areas:
//
//  1. [caption] - The augmentation engine (tokenizing, dropout, shuffle, simulation)
//  2. [pipeline] - Orchestration shared by CLI and HTTP API
//  3. [captions] - Caption file discovery on disk
//  4. [runs] - Recorded simulation runs (file and Mongo backends)
//  5. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through capdrop:
//
//	Caption text (or .txt/.caption file)
//	         ↓
//	    [pipeline] package (normalize options, Wolf rewrite)
//	         ↓
//	    [caption] package (tokenize → keep-token split → dropout/shuffle)
//	         ↓
//	    [caption] stats + [runs] history for the frontend
//
// # Quick Start
//
// Run a seeded simulation:
//
//	import (
//	    "context"
//	    "github.com/capdrop/capdrop/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, _ := runner.Simulate(context.Background(), pipeline.Options{
//	    Caption:     "a cat, a hat, outdoors",
//	    Operation:   "both",
//	    DropoutRate: 0.3,
//	    UseSeed:     true,
//	    Seed:        42,
//	    Steps:       200,
//	})
//
// Or call the engine directly:
//
//	import "github.com/capdrop/capdrop/pkg/caption"
//
//	out := caption.Dropout("a cat, a hat", caption.Options{Rate: 0.5})
//
// # Main Packages
//
// [caption] - The pure augmentation engine. Total functions over caption
// strings, deterministic under a seed, no I/O.
//
// [pipeline] - Option normalization, Wolf sentence rewriting, result
// statistics, and caching of seeded simulations. CLI and API both go
// through this package so identical configuration yields identical output.
//
// [captions] - Discovers .txt/.caption files under a root directory for
// the web frontend's file picker.
//
// [runs] - Persistence for simulation runs with file-based and MongoDB
// backends.
//
// [cache] - Content-addressed result cache with file, memory, Redis, and
// null backends.
//
// [errors] - Coded errors shared across CLI and API, with HTTP status
// mapping.
//
// [observability] - Hook interfaces for transform, cache, and HTTP
// events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/caption    # Engine only
//	go test -run Example     # Examples only
//
// [caption]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/caption
// [pipeline]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/pipeline
// [captions]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/captions
// [runs]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/runs
// [cache]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/cache
// [errors]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/errors
// [observability]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/capdrop/capdrop/pkg/buildinfo
package pkg
