package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printforge/printforge-api/internal/container"
	handlers "github.com/printforge/printforge-api/internal/interface/http"
	"github.com/printforge/printforge-api/internal/interface/middleware"
	"github.com/printforge/printforge-api/pkg/helpers"
)

// OrderModule wires the order routes, all protected.
// POST /api/orders/create, GET /api/orders/my
type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/orders/create", m.Handler.Create)
		auth.GET("/orders/my", m.Handler.MyOrders)
	}
}
