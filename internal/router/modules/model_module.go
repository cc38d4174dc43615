package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printforge/printforge-api/internal/container"
	handlers "github.com/printforge/printforge-api/internal/interface/http"
	"github.com/printforge/printforge-api/internal/interface/middleware"
	"github.com/printforge/printforge-api/pkg/helpers"
)

// ModelModule wires the catalog and upload routes.
// Public: GET /api/models/catalog, GET /api/models/search, GET /api/models/:id
// Protected: POST /api/models/upload
type ModelModule struct {
	Handler *handlers.ModelHandler
	JWT     *helpers.JWTManager
}

func NewModelModule(h *handlers.ModelHandler, jwt *helpers.JWTManager) *ModelModule {
	return &ModelModule{Handler: h, JWT: jwt}
}

func (m *ModelModule) Register(rg *gin.RouterGroup) {
	catalogLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/models/catalog", catalogLimiter, m.Handler.Catalog)
	rg.GET("/models/search", searchLimiter, m.Handler.Search)
	// Registered after the static paths so "catalog" and "search" never bind as :id.
	rg.GET("/models/:id", catalogLimiter, m.Handler.GetModel)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/models/upload", m.Handler.Upload)
	}
}
