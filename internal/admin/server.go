// Package admin exposes a small HTTP surface for inspecting and poking a
// running pager: health, state, metrics and simulated button presses.
package admin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/remotext/internal/keypad"
	"github.com/danmuck/remotext/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 3 * time.Second

// Options wires the server to a device without importing it.
type Options struct {
	Node        string
	CorsOrigins []string
	// State returns a JSON-serializable snapshot.
	State func() any
	// Press simulates one button press by name. Nil disables POST /press.
	Press func(name string) error
}

type Server struct {
	opts     Options
	router   *gin.Engine
	appeared time.Time
}

func New(opts Options) *Server {
	if opts.Node == "" {
		opts.Node = "remotext"
	}
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(opts.Node))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{opts: opts, router: r, appeared: time.Now()}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.opts.Node,
			"version": "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/state", func(c *gin.Context) {
		if s.opts.State == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state unavailable"})
			return
		}
		c.JSON(http.StatusOK, s.opts.State())
	})

	s.router.POST("/press/:button", func(c *gin.Context) {
		if s.opts.Press == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote unavailable"})
			return
		}
		button := c.Param("button")
		if err := s.opts.Press(button); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, keypad.ErrUnknownButton) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "button": button})
	})
}

// Serve listens on addr until ctx ends.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("component", "admin").Str("addr", ln.Addr().String()).Msg("admin listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
