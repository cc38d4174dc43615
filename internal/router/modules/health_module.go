package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printforge/printforge-api/pkg/response"
)

// HealthModule exposes the liveness probe.
// GET /api/health
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, "ok", nil)
	})
}
