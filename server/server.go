// Package server exposes a Streamer over HTTP.
//
// Routes:
//
//	GET  /stream/{key...}  object bytes, honouring a single Range header
//	HEAD /stream/{key...}  the same headers from metadata alone
//	POST /upload           multipart upload of files[] under an optional folder
//	GET  /folders          top-level pseudo-folders of the bucket
//	GET  /healthz          liveness check
//	GET  /metrics          Prometheus exposition, when enabled
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/Cameron831/CloudStreamer/errors"
	"github.com/Cameron831/CloudStreamer/internal/metrics"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// Service is the pipeline the server delegates to. *streamer.Streamer satisfies it.
type Service interface {
	Stream(ctx context.Context, key, rangeHeader string) (*streamtypes.StreamResponse, error)
	Head(ctx context.Context, key, rangeHeader string) (*streamtypes.StreamResponse, error)
	Upload(ctx context.Context, folder string, files []streamtypes.UploadFile) ([]streamtypes.UploadResult, error)
	Folders(ctx context.Context) ([]string, error)
}

// Defaults applied by New to zero Config fields.
const (
	DefaultAddress         = ":8080"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadSize   = 512 << 20
	DefaultReadTimeout     = 30 * time.Second

	// multipartMemory is the part of an upload kept in memory; the rest spills to disk.
	multipartMemory = 32 << 20
)

// Config holds the HTTP layer settings.
type Config struct {
	// Address to listen on, e.g. ":8080".
	Address string

	// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
	ShutdownTimeout time.Duration

	// ReadTimeout bounds reading a request, upload bodies included.
	// Responses are not bounded: streams last as long as the client listens.
	ReadTimeout time.Duration

	// MaxUploadSize caps the body of an upload request in bytes.
	MaxUploadSize int64

	// CORSOrigins lists the allowed origins. Empty means any origin.
	CORSOrigins []string

	// EnableMetrics exposes /metrics.
	EnableMetrics bool
}

// Server wraps http.Server with the streaming routes and middleware.
type Server struct {
	svc     Service
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	srv     *http.Server
}

// New creates a Server for svc. A nil logger disables logging and nil metrics
// get a private registry.
func New(svc Service, cfg Config, logger *slog.Logger, m *metrics.Metrics) (*Server, error) {
	if svc == nil {
		return nil, errors.NewError("server initialization", errors.ErrInvalidInput).
			WithMessage("service cannot be nil")
	}
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		svc:     svc,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
	s.srv = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
	}
	return s, nil
}

// Handler returns the full handler chain: CORS, request ID, logging, metrics,
// panic recovery and the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /stream/{key...}", s.handleStream)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /folders", s.handleFolders)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.EnableMetrics {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var h http.Handler = mux
	h = s.recoverPanics(h)
	h = s.observe(h)
	h = s.logRequests(h)
	h = withRequestID(h)
	return s.cors().Handler(h)
}

func (s *Server) cors() *cors.Cors {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders: []string{"Range", "Content-Type", "X-Requested-With", requestIDHeader},
		ExposedHeaders: []string{
			"Content-Range",
			"Accept-Ranges",
			"Content-Length",
			requestIDHeader,
		},
	})
}

// Serve listens and serves until the server is shut down.
// http.ErrServerClosed is not reported.
func (s *Server) Serve() error {
	if s.logger != nil {
		s.logger.Info("listening", "address", s.cfg.Address)
	}
	err := s.srv.ListenAndServe()
	if err != nil && errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

// Shutdown stops accepting requests and waits up to the shutdown timeout for
// in-flight ones to finish.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.logger != nil {
		s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	}
	if err := s.Shutdown(); err != nil {
		return err
	}
	return <-errCh
}
