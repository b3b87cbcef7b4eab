package server

import (
	"context"
	"net/http"
	"strconv"

	"nbview/internal/logger"
	"nbview/internal/termview"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		// MaxBodyBytes caps POST bodies; 0 means 64 MiB.
		MaxBodyBytes int64
		// Render configures the text format; the theme is always plain.
		Render termview.Options
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

const defaultMaxBodyBytes = 64 << 20

var log = logger.Named("server")

func New(opts *Options) Server {
	if opts == nil {
		opts = &Options{}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger())
	}
	s.app.Use(middleware.Recover())

	s.app.HTTPErrorHandler = newHTTPErrorHandler()

	s.app.GET("/", home)
	s.app.GET("/healthz", healthz)

	v1 := s.app.Group("/v1")
	api := &renderAPI{maxBytes: s.maxBodyBytes(), renderOpts: s.opts.Render}
	v1.POST("/render", api.render, middleware.BodyLimit(strconv.FormatInt(s.maxBodyBytes(), 10)))
}

func (s *server) maxBodyBytes() int64 {
	if s.opts.MaxBodyBytes > 0 {
		return s.opts.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *server) Start() error {
	log.WithField("addr", s.opts.Address).Info("listening")
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "nbview preview service. POST a notebook to /v1/render?format=json|html|text")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
