package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whitesnakegang/ouroboros-sub007/internal/try"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	engine *try.Engine
}

// NewHandlers creates a new handler set
func NewHandlers(engine *try.Engine) *Handlers {
	return &Handlers{engine: engine}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Ouroboros Try Service",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(h.engine.Sessions()),
		"backend":  gin.H{"available": h.engine.BackendAvailable()},
	})
}

// GetSummary returns the condensed result for one debug session
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.engine.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTrace returns the reconstructed call tree for one debug session
func (h *Handlers) GetTrace(c *gin.Context) {
	trace, err := h.engine.GetTrace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

// GetIssues returns the detected bottlenecks for one debug session
func (h *Handlers) GetIssues(c *gin.Context) {
	issues, err := h.engine.GetIssues(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// DeleteTrace removes one session from local storage
func (h *Handlers) DeleteTrace(c *gin.Context) {
	identifier := c.Param("id")

	deleted, err := h.engine.DeleteTrace(identifier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":    deleted,
		"identifier": identifier,
	})
}

// ListSessions lists the sessions currently held in local storage
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.engine.Sessions()

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetTraceByID fetches one trace directly by backend trace ID
func (h *Handlers) GetTraceByID(c *gin.Context) {
	trace, err := h.engine.GetTraceByID(c.Request.Context(), c.Param("traceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

// respondError maps engine errors onto HTTP status codes. Only validation
// errors are client faults; backend trouble never becomes a 4xx.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, try.ErrInvalidIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, try.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, try.ErrBackendUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
