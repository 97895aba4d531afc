package handlers

import (
	"net/http"

	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves the unauthenticated probe endpoints.
type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Report godoc
// @Summary Service health
// @Description Per-component health. 503 only when a critical component is down.
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthCheck
// @Failure 503 {object} types.HealthCheck
// @Router /health [get]
func (h *HealthHandler) Report(c *gin.Context) {
	report := h.checker.CheckHealth(c.Request.Context())
	code := http.StatusOK
	if report.Status == types.HealthStatusDown {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Ready answers 503 until the database is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.checker.IsReady(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": types.HealthStatusDown})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": types.HealthStatusUp})
}
