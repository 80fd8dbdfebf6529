// Package server exposes the schema diff over HTTP.
package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/diffrunner"
)

const (
	// ContentTypeXML is the content type of every /diff response
	ContentTypeXML = "text/xml"

	// TargetParam overrides the target database name of a diff
	TargetParam = "target"

	shutdownTimeout = 5 * time.Second
)

// Server serves GET /diff and its metrics at GET /metrics.
type Server struct {
	echo    *echo.Echo
	runner  *diffrunner.Runner
	req     diffrunner.Request
	metrics *metrics
}

// New creates a Server that runs req (adjusted by query parameters) for every
// request.
func New(runner *diffrunner.Runner, req diffrunner.Request) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, runner: runner, req: req, metrics: newMetrics()}
	e.GET("/diff", s.handleDiff)
	e.GET("/metrics", echo.WrapHandler(s.metrics.handler()))
	return s
}

// Handler returns the http.Handler for the server routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "address", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}

	return nil
}

func (s *Server) handleDiff(c echo.Context) error {
	req := s.req
	if target := c.QueryParam(TargetParam); target != "" {
		req.Target.Database = target
	}

	var buf bytes.Buffer
	err := s.runner.Run(c.Request().Context(), &buf, req)
	s.metrics.observe(err, buf.Len())
	if err != nil {
		slog.Error("Diff failed", "target", req.Target.Database, "error", err)
		buf.WriteString(err.Error())
		return c.Blob(http.StatusInternalServerError, ContentTypeXML, buf.Bytes())
	}

	return c.Blob(http.StatusOK, ContentTypeXML, buf.Bytes())
}
