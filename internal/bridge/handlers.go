// internal/bridge/handlers.go
package bridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
	"github.com/tamzrod/dashboard-sync/internal/session"
)

func (s *Server) getView(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.View())
}

func (s *Server) ack(alert arbiter.AlertKind, fn func(context.Context) (arbiter.View, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := fn(c.Request.Context())

		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"status": "ok", "alert": alert, "view": v})
		case errors.Is(err, arbiter.ErrNoActiveAlert):
			c.JSON(http.StatusConflict, gin.H{"error": "alert not shown", "alert": alert, "view": v})
		case errors.Is(err, session.ErrClosed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "alert": alert, "view": v})
		}
	}
}

func (s *Server) resetSource(c *gin.Context) {
	s.session.ResetSource()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "channel": "api"})
}
