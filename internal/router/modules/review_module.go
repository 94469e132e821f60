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

type ReviewModule struct {
	Handler *handlers.ReviewHandler
	Users   repository.UserRepository
}

func NewReviewModule(h *handlers.ReviewHandler, users repository.UserRepository) *ReviewModule {
	return &ReviewModule{Handler: h, Users: users}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")

	// Public: approved reviews for a product.
	reviews.GET("/product/:productId", m.Handler.ListForProduct)

	authed := reviews.Group("")
	authed.Use(middleware.Authenticate(container.GetJWT(), m.Users))
	{
		createLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
		authed.POST("", createLimiter, m.Handler.Create)
		authed.GET("/my-reviews", m.Handler.MyReviews)
		authed.PUT("/:id", m.Handler.Update)
		authed.DELETE("/:id", m.Handler.Delete)

		adminOnly := middleware.RequireRoles(entity.RoleAdmin)
		authed.GET("", adminOnly, m.Handler.ListAll)
		authed.PUT("/:id/approve", adminOnly, m.Handler.Approve)
	}
}
