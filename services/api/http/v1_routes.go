package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API.
// Groups: /api/v1/core, /api/v1/realtime, /api/v1/incidents
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	// Core endpoints - history table, sensor map and per-medium detail
	core := v1.Group("/core")
	{
		core.GET("/history", s.handleV1History)
		core.GET("/sensors", s.handleV1ListSensors)
		core.GET("/sensors/:id", s.handleV1GetSensor)
		core.GET("/detail", s.handleV1Detail)
		core.GET("/detail/:type", s.handleV1Detail)
	}

	// Realtime endpoints - rendered dashboard and manual refresh
	realtime := v1.Group("/realtime")
	{
		realtime.GET("/dashboard", s.handleV1Dashboard)
		realtime.POST("/refresh", s.handleV1Refresh)
	}

	incident := v1.Group("/incidents")
	{
		incident.GET("", s.handleV1ListIncidents)
		incident.POST("", s.handleV1CreateIncident)
		incident.GET("/:id", s.handleV1GetIncident)
		incident.PATCH("/:id", s.handleV1UpdateIncident)
		incident.DELETE("/:id", s.handleV1DeleteIncident)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
