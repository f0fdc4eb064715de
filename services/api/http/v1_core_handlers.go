package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/layout"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	maxWindowMinutes = 24 * 60

	missingSensorMessage = "Error: Sensor no especificado."
	unknownSensorMessage = "Error: Sensor desconocido."
)

// handleV1History returns the flattened reading table
// GET /api/v1/core/history?filter=Agua&page=1&limit=20
func (s *Server) handleV1History(c *gin.Context) {
	filter := strings.TrimSpace(c.DefaultQuery("filter", views.AllFilter))

	page := 1
	if p := c.Query("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
	}

	limit := defaultPageSize
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= maxPageSize {
			limit = val
		}
	}

	rows := views.TableRows(s.deps.Dashboard.Snapshot().History, filter)
	pageRows, pages := views.Paginate(rows, page, limit)

	c.JSON(http.StatusOK, gin.H{
		"data": pageRows,
		"meta": gin.H{
			"filter":      filter,
			"page":        page,
			"limit":       limit,
			"total_pages": pages,
			"total_count": len(rows),
		},
	})
}

// handleV1ListSensors returns every map point with the focused info box
// GET /api/v1/core/sensors
func (s *Server) handleV1ListSensors(c *gin.Context) {
	view := views.MapPoints(s.deps.Dashboard.Locations(), s.deps.Dashboard.Snapshot().Current)

	c.JSON(http.StatusOK, gin.H{
		"data": view,
		"meta": gin.H{
			"count": len(view.Points),
		},
	})
}

// handleV1GetSensor returns the info box for one map point
// GET /api/v1/core/sensors/:id
func (s *Server) handleV1GetSensor(c *gin.Context) {
	loc, ok := layout.Find(s.deps.Dashboard.Locations(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": views.InfoBoxFor(loc, s.deps.Dashboard.Snapshot().Current),
	})
}

// handleV1Detail returns the chart and recent alerts for one medium
// GET /api/v1/core/detail/:type?minutes=2
func (s *Server) handleV1Detail(c *gin.Context) {
	param := strings.TrimSpace(c.Param("type"))
	if param == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingSensorMessage})
		return
	}
	kind, ok := models.ParseKind(param)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": unknownSensorMessage})
		return
	}

	window := s.cfg.AlertWindow
	if m := c.Query("minutes"); m != "" {
		minutes, err := strconv.ParseFloat(m, 64)
		if err != nil || !(minutes > 0 && minutes <= maxWindowMinutes) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minutes"})
			return
		}
		window = time.Duration(minutes * float64(time.Minute))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": s.deps.Dashboard.Detail(kind, window),
		"meta": gin.H{
			"slug": kind.Slug(),
		},
	})
}
