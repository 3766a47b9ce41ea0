package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StepPull/pkg/http/middleware"
	"StepPull/pkg/logger"
)

// Handler registers its routes on the server's Echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

type serverConfig struct {
	port            int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	log             *logger.Logger
}

type ServerOption func(*serverConfig)

func WithPort(port int) ServerOption {
	return func(c *serverConfig) { c.port = port }
}

func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.readTimeout = read
		c.writeTimeout = write
		c.shutdownTimeout = shutdown
	}
}

// WithLogger routes request logs and panic reports through the application
// logger.
func WithLogger(log *logger.Logger) ServerOption {
	return func(c *serverConfig) { c.log = log }
}

// Server hosts the API over Echo.
type Server struct {
	echo *echo.Echo
	cfg  serverConfig
}

func NewServer(handler Handler, opts ...ServerOption) *Server {
	cfg := serverConfig{
		port:            8080,
		readTimeout:     10 * time.Second,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.readTimeout
	e.Server.WriteTimeout = cfg.writeTimeout

	e.Use(middleware.Recover(cfg.log))
	e.Use(middleware.RequestLogging(cfg.log))
	e.Use(middleware.RequestMetrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	if handler != nil {
		handler.RegisterRoutes(e)
	}

	// Prometheus scrape endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, cfg: cfg}
}

// Start begins serving in the background; startup errors surface through the
// logger since binding happens after Start returns.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.port)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if s.cfg.log != nil {
				s.cfg.log.Error("http server stopped", logger.Error(err))
			}
		}
	}()
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
