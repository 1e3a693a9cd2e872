package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/pkg/database"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db      *database.PostgresDB
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{
		"status":  "ok",
		"version": h.version,
	}))
}

// Readiness handles GET /readyz - verifies the database is reachable
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(response.ErrCodeInternalError, "Database unreachable"))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ready"}))
}
