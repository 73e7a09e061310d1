// Package api serves the chat assistant and leadership reports over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insight-workers/internal/common/logger"
	"insight-workers/internal/session"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	Mode        string
	ReadyChecks map[string]ReadyCheck
	Version     string
}

type Server struct {
	router  *gin.Engine
	store   *session.Store
	boards  session.BoardLoader
	checks  map[string]ReadyCheck
	version string
	log     logger.Logger
}

func NewServer(store *session.Store, boards session.BoardLoader, opts Options, log logger.Logger) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	s := &Server{
		router:  gin.New(),
		store:   store,
		boards:  boards,
		checks:  opts.ReadyChecks,
		version: opts.Version,
		log:     log.Named("api"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/ready", s.ready)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/sessions", s.createSession)
		v1.GET("/sessions/:id", s.getSession)
		v1.DELETE("/sessions/:id", s.deleteSession)
		v1.POST("/sessions/:id/messages", s.postMessage)
		v1.POST("/sessions/:id/refresh", s.refresh)
		v1.POST("/sessions/:id/reports", s.createReport)
		v1.GET("/sessions/:id/reports", s.listReports)
		v1.GET("/sessions/:id/reports/:reportId", s.getReport)

		v1.GET("/insights/summary", s.summary)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router in an http.Server with the given timeouts.
func (s *Server) HTTPServer(addr string, read, write time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  read,
		WriteTimeout: write,
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
