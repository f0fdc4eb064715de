package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/poller"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

// handleV1Dashboard returns cards, alerts, map, charts and status line
// GET /api/v1/realtime/dashboard
func (s *Server) handleV1Dashboard(c *gin.Context) {
	snap := s.deps.Dashboard.Snapshot()

	meta := gin.H{
		"ready":        !snap.FetchedAt.IsZero(),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if !snap.FetchedAt.IsZero() {
		meta["fetched_at"] = snap.FetchedAt.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": s.deps.Board.View(),
		"meta": meta,
	})
}

// handleV1Refresh sends a simulated reading and refetches
// POST /api/v1/realtime/refresh
func (s *Server) handleV1Refresh(c *gin.Context) {
	err := s.deps.Dashboard.Refresh(c.Request.Context())
	switch {
	case errors.Is(err, poller.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": views.FetchFailedMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.deps.Board.View()})
}
