// Package server exposes templates, rendering, placeholder editing and
// saved documents over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/schema"
)

// Option configures the server.
type Option func(*Server)

// WithRepository enables the /documents endpoints.
func WithRepository(repo document.Repository) Option {
	return func(s *Server) {
		s.repo = repo
	}
}

// WithLogger sets the request logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAPIVersion sets the version reported in /openapi.json.
func WithAPIVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server is the HTTP API.
type Server struct {
	echo    *echo.Echo
	orch    *orchestrator.Orchestrator
	repo    document.Repository
	logger  zerolog.Logger
	version string
	spec    *openapi3.T
}

// New builds the echo instance and registers every route.
func New(orch *orchestrator.Orchestrator, options ...Option) *Server {
	s := &Server{
		orch:   orch,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	s.spec = schema.Document(orch.Catalog().List(), schema.DocumentOptions{
		Version:   s.version,
		Renderers: orch.Registry().List(),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(recovery(s.logger))
	e.Use(echomw.RequestID())
	e.Use(requestLogger(s.logger))

	s.echo = e
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/openapi.json", s.openAPI)

	e.GET("/templates", s.listTemplates)
	e.GET("/templates/:id", s.getTemplate)
	e.GET("/templates/:id/schema", s.templateSchema)
	e.POST("/templates/:id/render", s.renderTemplate)

	e.POST("/placeholders/insert", s.insertPlaceholder)
	e.POST("/placeholders/scan", s.scanPlaceholders)

	e.GET("/documents", s.listDocuments)
	e.GET("/documents/:id", s.getDocument)
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("docbind server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("docbind server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
	Output string              `json:"output,omitempty"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := errorResponse{Error: err.Error()}

	var httpErr *echo.HTTPError
	var verrs *render.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			body.Error = msg
		} else {
			body.Error = http.StatusText(status)
		}
	case errors.As(err, &verrs):
		status = http.StatusUnprocessableEntity
		body = errorResponse{Error: "validation failed", Fields: verrs.Fields, Form: verrs.Form}
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, document.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, orchestrator.ErrTemplateRequired):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError && httpErr == nil {
		s.logger.Error().Err(err).Msg("unhandled error")
		body.Error = http.StatusText(status)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}
