package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repository.UserRepository
}

func NewAdminModule(h *handlers.AdminHandler, users repository.UserRepository) *AdminModule {
	return &AdminModule{Handler: h, Users: users}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Authenticate(container.GetJWT(), m.Users),
		middleware.RequireRoles(entity.RoleAdmin),
	)
	{
		admin.GET("/dashboard", m.Handler.Dashboard)
		admin.GET("/recent-orders", m.Handler.RecentOrders)
		admin.GET("/popular-products", m.Handler.PopularProducts)
		admin.GET("/sales-stats", m.Handler.SalesStats)
		admin.GET("/customer-stats", m.Handler.CustomerStats)
		admin.GET("/product-stats", m.Handler.ProductStats)
		admin.GET("/order-stats", m.Handler.OrderStats)
		admin.GET("/review-stats", m.Handler.ReviewStats)
	}
}
