package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/pkg/response"
)

// AdminHandler serves the read-only dashboard endpoints.
type AdminHandler struct {
	Admin  *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Logger: logger}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("dashboard stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	response.Success(c, http.StatusOK, stats, "")
}

func (h *AdminHandler) RecentOrders(c *gin.Context) {
	orders, err := h.Admin.RecentOrders(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		h.Logger.WithError(err).Error("recent orders failed")
		response.Error(c, http.StatusInternalServerError, "failed to load recent orders")
		return
	}
	response.Success(c, http.StatusOK, orders, "")
}

func (h *AdminHandler) PopularProducts(c *gin.Context) {
	products, err := h.Admin.PopularProducts(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		h.Logger.WithError(err).Error("popular products failed")
		response.Error(c, http.StatusInternalServerError, "failed to load popular products")
		return
	}
	response.Success(c, http.StatusOK, products, "")
}

func (h *AdminHandler) SalesStats(c *gin.Context) {
	buckets, err := h.Admin.SalesStats(c.Request.Context(), c.DefaultQuery("period", "month"))
	if err != nil {
		h.Logger.WithError(err).Error("sales stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load sales stats")
		return
	}
	response.Success(c, http.StatusOK, buckets, "")
}

func (h *AdminHandler) CustomerStats(c *gin.Context) {
	stats, err := h.Admin.CustomerStats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("customer stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load customer stats")
		return
	}
	response.Success(c, http.StatusOK, stats, "")
}

func (h *AdminHandler) ProductStats(c *gin.Context) {
	stats, err := h.Admin.ProductStats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("product stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load product stats")
		return
	}
	response.Success(c, http.StatusOK, stats, "")
}

func (h *AdminHandler) OrderStats(c *gin.Context) {
	stats, err := h.Admin.OrderStats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("order stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load order stats")
		return
	}
	response.Success(c, http.StatusOK, stats, "")
}

func (h *AdminHandler) ReviewStats(c *gin.Context) {
	stats, err := h.Admin.ReviewStats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("review stats failed")
		response.Error(c, http.StatusInternalServerError, "failed to load review stats")
		return
	}
	response.Success(c, http.StatusOK, stats, "")
}
