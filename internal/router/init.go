package router

import (
	"github.com/printforge/printforge-api/internal/application"
	"github.com/printforge/printforge-api/internal/container"
	gcsinfra "github.com/printforge/printforge-api/internal/infrastructure/gcs"
	pginfra "github.com/printforge/printforge-api/internal/infrastructure/postgres"
	handlers "github.com/printforge/printforge-api/internal/interface/http"
	"github.com/printforge/printforge-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	models := pginfra.NewModelRepository(pool)
	orders := pginfra.NewOrderRepository(pool)
	assets := gcsinfra.NewAssetStore(container.GetGCS(), cfg.GCSBucket)

	// A nil *RabbitPublisher must stay a nil interface so the services'
	// best-effort checks still short-circuit.
	var mailQueue application.EmailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		mailQueue = pub
	}

	userSvc := application.NewUserService(users, container.GetJWT(), container.GetRedis(), logger, mailQueue)
	modelSvc := application.NewModelService(models, users, assets, container.GetRedis(), logger,
		container.GetES(), cfg.ESModelsIndex, cfg.AssetURLTTL)
	orderSvc := application.NewOrderService(orders, models, users, logger, mailQueue)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure), container.GetJWT()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT()))
	r.Add(modules.NewModelModule(handlers.NewModelHandler(modelSvc, logger), container.GetJWT()))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(orderSvc, logger), container.GetJWT()))
	r.Add(modules.NewCalculatorModule(handlers.NewCalculatorHandler()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
