package router

import (
	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/infrastructure/postgres"
	"github.com/mercatohq/mercato/internal/infrastructure/search"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/router/modules"
)

// InitModules constructs repositories, services and handlers from the
// container singletons and registers every feature module. Called once at
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	productIndex := search.NewProductIndex(container.GetES(), cfg.ESProductsIndex, logger)

	authSvc := application.NewAuthService(userRepo, container.GetJWT(), container.GetRedis(),
		container.GetRabbitPub(), logger, cfg.FrontendURL)
	userSvc := application.NewUserService(userRepo, productRepo, logger)
	catalogSvc := application.NewCatalogService(categoryRepo, productRepo, productIndex,
		container.GetGCS(), cfg.GCSBucket, logger)
	orderSvc := application.NewOrderService(orderRepo, productRepo, userRepo,
		container.GetRabbitPub(), logger)
	reviewSvc := application.NewReviewService(reviewRepo, productRepo, logger)
	adminSvc := application.NewAdminService(statsRepo, logger)

	authHandler := handlers.NewAuthHandler(authSvc, userSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	productHandler := handlers.NewProductHandler(catalogSvc, logger)
	categoryHandler := handlers.NewCategoryHandler(catalogSvc, logger)
	orderHandler := handlers.NewOrderHandler(orderSvc, logger)
	reviewHandler := handlers.NewReviewHandler(reviewSvc, logger)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, userHandler, userRepo))
	r.Add(modules.NewUserModule(userHandler, userRepo))
	r.Add(modules.NewCatalogModule(productHandler, categoryHandler, userRepo))
	r.Add(modules.NewOrderModule(orderHandler, userRepo))
	r.Add(modules.NewReviewModule(reviewHandler, userRepo))
	r.Add(modules.NewAdminModule(adminHandler, userRepo))
}
