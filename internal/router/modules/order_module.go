package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/interface/middleware"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	Users   repository.UserRepository
}

func NewOrderModule(h *handlers.OrderHandler, users repository.UserRepository) *OrderModule {
	return &OrderModule{Handler: h, Users: users}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.Authenticate(container.GetJWT(), m.Users))
	{
		createLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
		orders.POST("", createLimiter, m.Handler.Create)
		orders.GET("/my-orders", m.Handler.MyOrders)
		orders.GET("/:id", m.Handler.Get)

		adminOnly := middleware.RequireRoles(entity.RoleAdmin)
		orders.GET("", adminOnly, m.Handler.ListAll)
		orders.PUT("/:id/status", adminOnly, m.Handler.UpdateStatus)
	}
}
