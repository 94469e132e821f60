package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Authenticate(container.GetJWT(), m.Users))
	{
		users.PUT("/profile", m.Handler.UpdateProfile)

		users.GET("/addresses", m.Handler.ListAddresses)
		users.POST("/addresses", m.Handler.AddAddress)
		users.PUT("/addresses/:id", m.Handler.UpdateAddress)
		users.DELETE("/addresses/:id", m.Handler.DeleteAddress)
		users.PUT("/addresses/:id/default", m.Handler.SetDefaultAddress)

		users.PUT("/preferences", m.Handler.UpdatePreferences)

		users.GET("/wishlist", m.Handler.Wishlist)
		users.POST("/wishlist", m.Handler.AddToWishlist)
		users.DELETE("/wishlist/:productId", m.Handler.RemoveFromWishlist)

		users.GET("", middleware.RequireRoles(entity.RoleAdmin), m.Handler.List)
	}
}
