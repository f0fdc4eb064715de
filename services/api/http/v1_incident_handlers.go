package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
)

const noIncidentsMessage = "No hay incidencias registradas con el filtro actual."

type incidentEntry struct {
	incidents.Incident
	Summary       string `json:"summary"`
	DisplayDate   string `json:"displayDate"`
	StatusClass   string `json:"statusClass"`
	SeverityClass string `json:"severityClass"`
}

func toEntry(inc incidents.Incident) incidentEntry {
	return incidentEntry{
		Incident:      inc,
		Summary:       inc.Summary(),
		DisplayDate:   inc.DisplayDate(),
		StatusClass:   inc.Status.Class(),
		SeverityClass: inc.Severity.Class(),
	}
}

type statusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// handleV1ListIncidents returns the incident log, newest first
// GET /api/v1/incidents?status=Abierta
func (s *Server) handleV1ListIncidents(c *gin.Context) {
	filter := c.DefaultQuery("status", incidents.AllStatuses)

	list, err := s.deps.Incidents.List(c.Request.Context(), filter)
	if err != nil {
		s.incidentError(c, err)
		return
	}

	entries := make([]incidentEntry, 0, len(list))
	for _, inc := range list {
		entries = append(entries, toEntry(inc))
	}

	meta := gin.H{"status": filter, "count": len(entries)}
	if len(entries) == 0 {
		meta["message"] = noIncidentsMessage
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "meta": meta})
}

// handleV1GetIncident returns one incident
// GET /api/v1/incidents/:id
func (s *Server) handleV1GetIncident(c *gin.Context) {
	inc, err := s.deps.Incidents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.incidentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toEntry(inc)})
}

// handleV1CreateIncident records a new open incident
// POST /api/v1/incidents
func (s *Server) handleV1CreateIncident(c *gin.Context) {
	var draft incidents.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	inc, err := s.deps.Incidents.Create(c.Request.Context(), draft)
	if err != nil {
		s.incidentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": toEntry(inc)})
}

// handleV1UpdateIncident changes an incident's status
// PATCH /api/v1/incidents/:id
func (s *Server) handleV1UpdateIncident(c *gin.Context) {
	var body statusUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	inc, err := s.deps.Incidents.SetStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		s.incidentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toEntry(inc)})
}

// handleV1DeleteIncident removes an incident
// DELETE /api/v1/incidents/:id
func (s *Server) handleV1DeleteIncident(c *gin.Context) {
	if err := s.deps.Incidents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.incidentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) incidentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, incidents.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, incidents.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
