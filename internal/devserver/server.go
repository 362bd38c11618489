// Package devserver is an in-memory implementation of the task backend's
// REST contract, for local development and end-to-end tests.
//
// Users and sessions live in memory, each user owns a fallback.Store, and
// nothing survives a restart.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tasker/internal/backend/fallback"
	"tasker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Logger receives lifecycle messages. Requests are logged by gin.
	Logger *slog.Logger

	// Quiet disables gin's request log.
	Quiet bool

	// Now is the clock handed to per-user stores; nil means time.Now.
	Now func() time.Time
}

// Server serves the /api routes.
type Server struct {
	log    *slog.Logger
	now    func() time.Time
	router *gin.Engine

	mu       sync.Mutex
	accounts map[string]*account            // by lower-cased email
	sessions map[string]service.ID          // token -> user id
	stores   map[service.ID]*fallback.Store // user id -> tasks
	lastUser int64
}

// New builds a Server with an empty user table.
func New(opts Options) *Server {
	s := &Server{
		log:      opts.Logger,
		now:      opts.Now,
		accounts: make(map[string]*account),
		sessions: make(map[string]service.ID),
		stores:   make(map[service.ID]*fallback.Store),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.router = s.newRouter(opts.Quiet)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter(quiet bool) *gin.Engine {
	r := gin.New()
	if !quiet {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/signup", s.signup)

	tasks := api.Group("/tasks", s.requireToken())
	tasks.GET("", s.listTasks)
	tasks.POST("", s.createTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	return r
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dev server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("dev server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// abort ends the request with a {message} body.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
