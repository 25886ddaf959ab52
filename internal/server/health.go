package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleHealth reports API liveness and whether the store answers a trivial
// round-trip. Consumed by the client's connectivity poll and the container
// healthcheck.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
