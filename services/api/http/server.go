package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/config"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/poller"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

// Dashboard is the poller surface the handlers read from.
type Dashboard interface {
	Snapshot() poller.Snapshot
	Locations() []models.SensorLocation
	Detail(kind models.SensorKind, window time.Duration) views.Detail
	Refresh(ctx context.Context) error
}

// Board returns the last rendered dashboard views.
type Board interface {
	View() views.BoardView
}

// Deps are the collaborators behind the routes. Stream may be nil.
type Deps struct {
	Dashboard Dashboard
	Board     Board
	Incidents *incidents.Service
	Stream    http.Handler
}

// Server bundles router and dependencies for the dashboard API.
type Server struct {
	cfg    config.Config
	deps   Deps
	log    zerolog.Logger
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.SetHTMLTemplate(pageTemplate)

	server := &Server{
		cfg:    cfg,
		deps:   deps,
		log:    log.With().Str("component", "http").Logger(),
		engine: engine,
	}
	server.registerRoutes()
	server.registerV1Routes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler is the engine wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.engine)
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/", s.handleIndex)

	if s.deps.Stream != nil {
		s.engine.GET("/ws", gin.WrapH(s.deps.Stream))
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("client", c.ClientIP()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
