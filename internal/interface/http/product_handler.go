package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/response"
	"github.com/mercatohq/mercato/pkg/validation"
)

type ProductHandler struct {
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewProductHandler(catalog *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Catalog: catalog, Logger: logger}
}

type variantRequest struct {
	Size  string  `json:"size"`
	Color string  `json:"color"`
	SKU   string  `json:"sku" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
	Stock int     `json:"stock" binding:"gte=0"`
}

type productRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	Description   string           `json:"description" binding:"required"`
	Price         float64          `json:"price" binding:"required,gt=0"`
	OriginalPrice float64          `json:"originalPrice" binding:"omitempty,gt=0"`
	Brand         string           `json:"brand"`
	Stock         int              `json:"stock" binding:"gte=0"`
	CategoryID    string           `json:"categoryId" binding:"required"`
	MainImage     string           `json:"mainImage" binding:"omitempty,url"`
	Images        []string         `json:"images" binding:"omitempty,dive,url"`
	Tags          []string         `json:"tags"`
	Variants      []variantRequest `json:"variants" binding:"omitempty,dive"`
	IsFeatured    bool             `json:"isFeatured"`
	IsActive      *bool            `json:"isActive"`
}

func (r *productRequest) toEntity() *entity.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	p := &entity.Product{
		Name:          r.Name,
		SKU:           r.SKU,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Brand:         r.Brand,
		Stock:         r.Stock,
		CategoryID:    r.CategoryID,
		MainImage:     r.MainImage,
		Images:        r.Images,
		Tags:          r.Tags,
		IsFeatured:    r.IsFeatured,
		IsActive:      active,
	}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, entity.Variant{
			Size:  v.Size,
			Color: v.Color,
			SKU:   v.SKU,
			Price: v.Price,
			Stock: v.Stock,
		})
	}
	return p
}

func (h *ProductHandler) List(c *gin.Context) {
	f := repository.ProductFilter{
		CategoryID: c.Query("category"),
		MinPrice:   queryFloatPtr(c, "minPrice"),
		MaxPrice:   queryFloatPtr(c, "maxPrice"),
		MinRating:  queryFloatPtr(c, "rating"),
		Search:     c.Query("search"),
		IsActive:   queryBoolPtr(c, "isActive"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 12),
	}
	// Public listings only see active products.
	if f.IsActive == nil {
		active := true
		f.IsActive = &active
	}
	products, total, err := h.Catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("list products failed")
		response.Error(c, http.StatusInternalServerError, "failed to list products")
		return
	}
	response.Paginated(c, products, response.NewPagination(f.Page, f.Limit, total))
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("get product failed")
		response.Error(c, http.StatusInternalServerError, "failed to load product")
		return
	}
	response.Success(c, http.StatusOK, p, "")
}

func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.Catalog.FeaturedProducts(c.Request.Context(), queryInt(c, "limit", 8))
	if err != nil {
		h.Logger.WithError(err).Error("featured products failed")
		response.Error(c, http.StatusInternalServerError, "failed to load featured products")
		return
	}
	response.Success(c, http.StatusOK, products, "")
}

func (h *ProductHandler) Popular(c *gin.Context) {
	products, err := h.Catalog.PopularProducts(c.Request.Context(), queryInt(c, "limit", 8))
	if err != nil {
		h.Logger.WithError(err).Error("popular products failed")
		response.Error(c, http.StatusInternalServerError, "failed to load popular products")
		return
	}
	response.Success(c, http.StatusOK, products, "")
}

func (h *ProductHandler) Related(c *gin.Context) {
	products, err := h.Catalog.RelatedProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("related products failed")
		response.Error(c, http.StatusInternalServerError, "failed to load related products")
		return
	}
	response.Success(c, http.StatusOK, products, "")
}

func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	products, err := h.Catalog.SearchProducts(c.Request.Context(), q, queryInt(c, "limit", 10))
	if err != nil {
		h.Logger.WithError(err).Error("search products failed")
		response.Error(c, http.StatusInternalServerError, "search failed")
		return
	}
	response.Success(c, http.StatusOK, products, "")
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	p := req.toEntity()
	if err := h.Catalog.CreateProduct(c.Request.Context(), p); err != nil {
		switch {
		case errors.Is(err, application.ErrCategoryNotFound):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrDuplicateSKU):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("create product failed")
			response.Error(c, http.StatusInternalServerError, "failed to create product")
		}
		return
	}
	response.Success(c, http.StatusCreated, p, "product created")
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	p := req.toEntity()
	p.ID = c.Param("id")
	if err := h.Catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		switch {
		case errors.Is(err, application.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrDuplicateSKU):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("update product failed")
			response.Error(c, http.StatusInternalServerError, "failed to update product")
		}
		return
	}
	response.Success(c, http.StatusOK, p, "product updated")
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("delete product failed")
		response.Error(c, http.StatusInternalServerError, "failed to delete product")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product deleted")
}

// UploadImages accepts multipart files and stores them in GCS.
func (h *ProductHandler) UploadImages(c *gin.Context) {
	productID := c.Param("id")
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "multipart form required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "no images provided")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "failed to read upload")
			return
		}
		url, err := h.Catalog.UploadProductImage(c.Request.Context(), productID, f,
			fh.Filename, fh.Header.Get("Content-Type"))
		_ = f.Close()
		if err != nil {
			if errors.Is(err, application.ErrStorageDisabled) {
				response.Error(c, http.StatusServiceUnavailable, err.Error())
				return
			}
			h.Logger.WithError(err).Error("image upload failed")
			response.Error(c, http.StatusInternalServerError, "image upload failed")
			return
		}
		urls = append(urls, url)
	}
	response.Success(c, http.StatusCreated, gin.H{"urls": urls}, "images uploaded")
}
