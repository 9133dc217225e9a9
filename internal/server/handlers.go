package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/capdrop/capdrop/pkg/buildinfo"
	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/captions"
	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/observability"
	"github.com/capdrop/capdrop/pkg/pipeline"
	"github.com/capdrop/capdrop/pkg/runs"
)

// handleHealth reports liveness and build info.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// listingTTL caps how stale a cached directory listing may be. Caption
// datasets change rarely while a tuning session is open, but they do
// change.
const listingTTL = 30 * time.Second

// handleListCaptions lists caption files under the configured root.
// The optional dir parameter scopes the listing to a subdirectory.
// Listings are cached briefly since scanning large datasets is slow.
func (s *Server) handleListCaptions(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	key := s.keyer.ListingKey(s.source.Root()+"/"+dir, cache.ListingKeyOpts{
		Recursive: true,
		MaxFiles:  captions.DefaultMaxFiles,
	})

	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		var files []captions.File
		if json.Unmarshal(data, &files) == nil {
			observability.Cache().OnCacheHit(r.Context(), "listing")
			s.writeListing(w, files)
			return
		}
	}
	observability.Cache().OnCacheMiss(r.Context(), "listing")

	files, err := s.source.List(r.Context(), dir)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if data, err := json.Marshal(files); err == nil {
		if err := s.cache.Set(r.Context(), key, data, listingTTL); err == nil {
			observability.Cache().OnCacheSet(r.Context(), "listing", len(data))
		}
	}
	s.writeListing(w, files)
}

func (s *Server) writeListing(w http.ResponseWriter, files []captions.File) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"count": len(files),
	})
}

// handleCaptionContent returns the text of a single caption file.
func (s *Server) handleCaptionContent(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	content, err := s.source.Content(r.Context(), path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"path":    path,
		"caption": content,
	})
}

// handleTransform runs a single transform and returns the result caption.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Transform(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"caption": opts.Caption,
		"result":  result,
	})
}

// simulateResponse wraps a pipeline result with the ID of the recorded
// run, when run history is enabled.
type simulateResponse struct {
	*pipeline.Result
	RunID string `json:"run_id,omitempty"`
}

// handleSimulate runs the step simulator. When a run store is configured,
// the result is recorded so the frontend can page back through history;
// store failures degrade to an unrecorded run rather than failing the
// simulation.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Simulate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := simulateResponse{Result: result}
	if s.store != nil {
		run := runs.New(opts.Caption, opts.Operation, runOptions(opts), result.Steps, result.Stats)
		if err := s.store.Save(r.Context(), run); err != nil {
			s.logger.Warn("run save failed", "err", err, "run", run.ID)
		} else {
			resp.RunID = run.ID
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// runOptions echoes normalized pipeline options into the run record.
func runOptions(opts pipeline.Options) runs.RunOptions {
	return runs.RunOptions{
		DropoutRate:         opts.DropoutRate,
		KeepTokens:          opts.KeepTokens,
		KeepTokensSeparator: opts.KeepTokensSeparator,
		Separators:          opts.CaptionSeparators,
		Seed:                opts.Seed,
		UseSeed:             opts.UseSeed,
		WolfCaptions:        opts.WolfCaptions,
		StepCount:           opts.Steps,
	}
}

// handleListRuns returns recent runs, newest first. The optional limit
// parameter caps the page size.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "run history is not enabled"))
		return
	}

	limit := runs.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs":  list,
		"count": len(list),
	})
}

// handleGetRun returns a single recorded run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "run history is not enabled"))
		return
	}
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// handleDeleteRun removes a recorded run. Unknown IDs are a no-op.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "run history is not enabled"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
