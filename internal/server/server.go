// Package server implements the capdrop HTTP service.
//
// The service exposes the transform pipeline and caption discovery over a
// small JSON API consumed by the web frontend. All heavy lifting happens
// in pkg/pipeline and pkg/caption; handlers only decode requests, call
// the pipeline, and encode responses. Errors surface as structured JSON
// with the codes from pkg/errors.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/captions"
	"github.com/capdrop/capdrop/pkg/errors"
	"github.com/capdrop/capdrop/pkg/pipeline"
	"github.com/capdrop/capdrop/pkg/runs"
)

// =============================================================================
// Configuration
// =============================================================================

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8420"

	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	// maxBodySize bounds request bodies. Transform requests carry a
	// single caption, so anything larger is garbage.
	maxBodySize = 1 << 20
)

// Config holds server dependencies. Source is required; Store and Cache
// are optional (nil disables run history and result caching).
type Config struct {
	Addr   string
	Source *captions.Source
	Store  runs.Store
	Cache  cache.Cache
	Logger *log.Logger
}

// =============================================================================
// Server
// =============================================================================

// Server is the capdrop HTTP service.
type Server struct {
	addr   string
	source *captions.Source
	store  runs.Store
	runner *pipeline.Runner
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// New creates a server from config.
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Server{
		addr:   addr,
		source: cfg.Source,
		store:  cfg.Store,
		runner: pipeline.NewRunner(c, logger),
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/captions", s.handleListCaptions)
		r.Get("/caption-content", s.handleCaptionContent)
		r.Post("/transform", s.handleTransform)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr, "captions", s.source.Root())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeNetwork, err, "server failed")
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "shutdown failed")
		}
		return nil
	}
}

// =============================================================================
// JSON Helpers
// =============================================================================

// writeJSON encodes v with the given status. Encoding failures are logged
// only; the status line has already been sent.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", "err", err)
	}
}

// errorBody is the wire shape of a failed request.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps a coded error to an HTTP status and JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, errors.HTTPStatus(err), body)
}

// decodeBody decodes a size-limited JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
