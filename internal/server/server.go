// Package server exposes sheet rendering over HTTP for browser previews.
//
// Routes:
//
//	GET /healthz                 liveness and build version
//	GET /pitches                 the pitch vocabulary grouped by string
//	GET /sheet.{svg,png,pdf,json} a freshly planned sheet
//
// Sheet routes take the command-line settings as query parameters: pitches,
// string, staves, gap (cm), notes, pages, mode, seed, page_size, plus page
// and scale for the single-page formats.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/matzehuels/staffsheet/pkg/buildinfo"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "localhost:8080"

const (
	readTimeout    = 10 * time.Second
	requestTimeout = 60 * time.Second
	shutdownGrace  = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string
	// Origins lists the origins allowed to call the API from a browser.
	// Empty allows any origin.
	Origins []string
	// ClefPath is the glyph asset used for every sheet.
	ClefPath string
}

// Server serves rendered sheets.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/pitches", s.handlePitches)
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON} {
		r.Get("/sheet."+f, s.handleSheet(f))
	}
	return r
}

// Handler returns the router wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.Origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", s.opts.Addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
