// Package server exposes the studio over a local JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/studio"
)

// DefaultThumbnailSize is the longest edge of gallery thumbnails.
const DefaultThumbnailSize = 256

// Options configure a Server. Zero values select defaults.
type Options struct {
	DefaultBatchSize int
	ThumbnailSize    int
	// Metrics enables /metrics and request instrumentation.
	Metrics bool
}

// Server routes HTTP requests to a studio.Service.
type Server struct {
	studio  *studio.Service
	opts    Options
	metrics *Metrics

	// base outlives requests so motion jobs survive the POST that started them.
	base context.Context
	jobs sync.WaitGroup

	mu         sync.Mutex
	motionErrs map[string]error
}

// New creates a Server. Background motion jobs use ctx.
func New(ctx context.Context, svc *studio.Service, opts Options) *Server {
	if opts.DefaultBatchSize <= 0 {
		opts.DefaultBatchSize = 4
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = DefaultThumbnailSize
	}
	s := &Server{
		studio:     svc,
		opts:       opts,
		base:       ctx,
		motionErrs: make(map[string]error),
	}
	if opts.Metrics {
		s.metrics = NewMetrics()
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, s.withAccessLog, withCORS)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/credential", func(r chi.Router) {
			r.Get("/", s.handleCredentialStatus)
			r.Post("/", s.handleCredentialUse)
			r.Post("/select", s.handleCredentialSelect)
			r.Post("/validate", s.handleCredentialValidate)
		})
		r.Post("/batches", s.handleCreateBatch)
		r.Route("/bundles", func(r chi.Router) {
			r.Get("/", s.handleListBundles)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBundle)
				r.Get("/image", s.handleImage)
				r.Get("/thumbnail", s.handleThumbnail)
				r.Get("/moodboard/{n}", s.handleMoodboard)
				r.Post("/motion", s.handleStartMotion)
				r.Get("/motion", s.handleMotionStatus)
				r.Get("/motion/video", s.handleMotionVideo)
				r.Get("/blueprint", s.handleBlueprint)
				r.Get("/export", s.handleExport)
			})
		})
	})
	return r
}

// Wait blocks until background motion jobs finish.
func (s *Server) Wait() {
	s.jobs.Wait()
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.Wait()
	return nil
}
