package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/pkg/response"
	"github.com/mercatohq/mercato/pkg/validation"
)

type CategoryHandler struct {
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewCategoryHandler(catalog *application.CatalogService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Catalog: catalog, Logger: logger}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"omitempty,slugfmt"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"omitempty,url"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

func (r *categoryRequest) toEntity() *entity.Category {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &entity.Category{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		ImageURL:    r.Image,
		IsActive:    active,
		SortOrder:   r.SortOrder,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	// Admins may pass all=true to include inactive categories.
	activeOnly := c.Query("all") != "true"
	categories, err := h.Catalog.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		h.Logger.WithError(err).Error("list categories failed")
		response.Error(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	response.Success(c, http.StatusOK, categories, "")
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.Catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrCategoryNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("get category failed")
		response.Error(c, http.StatusInternalServerError, "failed to load category")
		return
	}
	response.Success(c, http.StatusOK, cat, "")
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	cat := req.toEntity()
	if err := h.Catalog.CreateCategory(c.Request.Context(), cat); err != nil {
		if errors.Is(err, application.ErrDuplicateSlug) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("create category failed")
		response.Error(c, http.StatusInternalServerError, "failed to create category")
		return
	}
	response.Success(c, http.StatusCreated, cat, "category created")
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	cat := req.toEntity()
	cat.ID = c.Param("id")
	if err := h.Catalog.UpdateCategory(c.Request.Context(), cat); err != nil {
		switch {
		case errors.Is(err, application.ErrCategoryNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrDuplicateSlug):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("update category failed")
			response.Error(c, http.StatusInternalServerError, "failed to update category")
		}
		return
	}
	response.Success(c, http.StatusOK, cat, "category updated")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		var notEmpty *application.CategoryNotEmptyError
		switch {
		case errors.Is(err, application.ErrCategoryNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.As(err, &notEmpty):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("delete category failed")
			response.Error(c, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "category deleted")
}
