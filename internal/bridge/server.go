// internal/bridge/server.go
package bridge

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
)

const shutdownTimeout = 5 * time.Second

// Session is the part of the owner loop the bridge exposes.
type Session interface {
	View() arbiter.View
	AcknowledgeAccident(ctx context.Context) (arbiter.View, error)
	AcknowledgeSpeaker(ctx context.Context) (arbiter.View, error)
	ResetSource()
}

// Server serves the view and operator actions to an external renderer.
type Server struct {
	session Session
	router  *gin.Engine
	srv     *http.Server
}

// New builds the router. gatherer may be nil to disable /metrics.
func New(addr string, sess Session, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		session: sess,
		router:  gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes(gatherer)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	// No access log: renderers poll the view several times a second.
	s.router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "dashboard-sync"})
	})

	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/view", s.getView)
		v1.POST("/ack/accident", s.ack(arbiter.AlertResponse, s.session.AcknowledgeAccident))
		v1.POST("/ack/speaker", s.ack(arbiter.AlertSpeaker, s.session.AcknowledgeSpeaker))
		v1.POST("/source/reset", s.resetSource)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("bridge listening (addr=%s)", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
