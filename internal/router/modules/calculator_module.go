package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printforge/printforge-api/internal/container"
	handlers "github.com/printforge/printforge-api/internal/interface/http"
	"github.com/printforge/printforge-api/internal/interface/middleware"
)

// CalculatorModule wires the public cost estimation route.
// POST /api/calculator/estimate
type CalculatorModule struct {
	Handler *handlers.CalculatorHandler
}

func NewCalculatorModule(h *handlers.CalculatorHandler) *CalculatorModule {
	return &CalculatorModule{Handler: h}
}

func (m *CalculatorModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.POST("/calculator/estimate", rl, m.Handler.Estimate)
}
