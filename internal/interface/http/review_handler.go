package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/internal/interface/middleware"
	"github.com/mercatohq/mercato/pkg/response"
	"github.com/mercatohq/mercato/pkg/validation"
)

type ReviewHandler struct {
	Reviews *application.ReviewService
	Logger  *logrus.Logger
}

func NewReviewHandler(reviews *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Logger: logger}
}

type createReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Title     string `json:"title"`
	Comment   string `json:"comment" binding:"required"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Title   string `json:"title"`
	Comment string `json:"comment" binding:"required"`
}

type approveReviewRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	reviews, total, err := h.Reviews.ListForProduct(c.Request.Context(), c.Param("productId"),
		queryIntPtr(c, "rating"), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		h.Logger.WithError(err).Error("list product reviews failed")
		response.Error(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	response.Paginated(c, reviews, response.NewPagination(queryInt(c, "page", 1), queryInt(c, "limit", 10), total))
}

func (h *ReviewHandler) MyReviews(c *gin.Context) {
	u := middleware.CurrentUser(c)
	page, limit := queryInt(c, "page", 1), queryInt(c, "limit", 10)
	reviews, total, err := h.Reviews.MyReviews(c.Request.Context(), u.ID, page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list my reviews failed")
		response.Error(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	response.Paginated(c, reviews, response.NewPagination(page, limit, total))
}

// ListAll is the admin moderation listing with an isApproved filter.
func (h *ReviewHandler) ListAll(c *gin.Context) {
	f := repository.ReviewFilter{
		ProductID: c.Query("productId"),
		Rating:    queryIntPtr(c, "rating"),
		Approved:  queryBoolPtr(c, "isApproved"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 10),
	}
	reviews, total, err := h.Reviews.ListAll(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("list reviews failed")
		response.Error(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	response.Paginated(c, reviews, response.NewPagination(f.Page, f.Limit, total))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	rv := &entity.Review{
		UserID:    u.ID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	}
	if err := h.Reviews.Create(c.Request.Context(), rv); err != nil {
		switch {
		case errors.Is(err, application.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrDuplicateReview):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("create review failed")
			response.Error(c, http.StatusInternalServerError, "failed to create review")
		}
		return
	}
	response.Success(c, http.StatusCreated, rv, "review submitted for moderation")
}

func (h *ReviewHandler) Update(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	rv, err := h.Reviews.Update(c.Request.Context(), u.ID, c.Param("id"), req.Rating, req.Title, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrReviewNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrReviewForbidden):
			response.Error(c, http.StatusForbidden, err.Error())
		default:
			h.Logger.WithError(err).Error("update review failed")
			response.Error(c, http.StatusInternalServerError, "failed to update review")
		}
		return
	}
	response.Success(c, http.StatusOK, rv, "review updated, pending moderation")
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Reviews.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, application.ErrReviewNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrReviewForbidden):
			response.Error(c, http.StatusForbidden, err.Error())
		default:
			h.Logger.WithError(err).Error("delete review failed")
			response.Error(c, http.StatusInternalServerError, "failed to delete review")
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "review deleted")
}

func (h *ReviewHandler) Approve(c *gin.Context) {
	var req approveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	rv, err := h.Reviews.SetApproved(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		if errors.Is(err, application.ErrReviewNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("approve review failed")
		response.Error(c, http.StatusInternalServerError, "failed to moderate review")
		return
	}
	response.Success(c, http.StatusOK, rv, "review moderation updated")
}
