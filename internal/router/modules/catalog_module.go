package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/interface/middleware"
)

// CatalogModule registers the public product/category surface plus the
// admin-only catalog management routes.
type CatalogModule struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Users      repository.UserRepository
}

func NewCatalogModule(products *handlers.ProductHandler, categories *handlers.CategoryHandler, users repository.UserRepository) *CatalogModule {
	return &CatalogModule{Products: products, Categories: categories, Users: users}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", m.Products.List)
		products.GET("/featured", m.Products.Featured)
		products.GET("/popular", m.Products.Popular)
		products.GET("/search", m.Products.Search)
		products.GET("/:id", m.Products.Get)
		products.GET("/:id/related", m.Products.Related)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", m.Categories.List)
		categories.GET("/:id", m.Categories.Get)
	}

	adminMW := []gin.HandlerFunc{
		middleware.Authenticate(container.GetJWT(), m.Users),
		middleware.RequireRoles(entity.RoleAdmin),
	}

	adminProducts := rg.Group("/products", adminMW...)
	{
		adminProducts.POST("", m.Products.Create)
		adminProducts.PUT("/:id", m.Products.Update)
		adminProducts.DELETE("/:id", m.Products.Delete)
		adminProducts.POST("/:id/images", m.Products.UploadImages)
	}

	adminCategories := rg.Group("/categories", adminMW...)
	{
		adminCategories.POST("", m.Categories.Create)
		adminCategories.PUT("/:id", m.Categories.Update)
		adminCategories.DELETE("/:id", m.Categories.Delete)
	}
}
