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

type OrderHandler struct {
	Orders *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(orders *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Orders: orders, Logger: logger}
}

type orderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Variant   string `json:"variant"`
}

type shippingAddressRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type createOrderRequest struct {
	Items           []orderLineRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Notes           string                 `json:"notes"`
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	in := application.CreateOrderInput{
		ShippingAddress: entity.ShippingAddress{
			FirstName: req.ShippingAddress.FirstName,
			LastName:  req.ShippingAddress.LastName,
			Street:    req.ShippingAddress.Street,
			City:      req.ShippingAddress.City,
			State:     req.ShippingAddress.State,
			ZipCode:   req.ShippingAddress.ZipCode,
			Country:   req.ShippingAddress.Country,
			Phone:     req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	for _, line := range req.Items {
		in.Items = append(in.Items, application.OrderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Variant:   line.Variant,
		})
	}

	o, err := h.Orders.Create(c.Request.Context(), u.ID, in)
	if err != nil {
		var missing *application.ProductMissingError
		var stock *repository.InsufficientStockError
		switch {
		case errors.Is(err, application.ErrEmptyOrder),
			errors.As(err, &missing),
			errors.As(err, &stock):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("create order failed")
			response.Error(c, http.StatusInternalServerError, "failed to create order")
		}
		return
	}
	response.Success(c, http.StatusCreated, o, "order placed")
}

func (h *OrderHandler) Get(c *gin.Context) {
	u := middleware.CurrentUser(c)
	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrOrderForbidden):
			response.Error(c, http.StatusForbidden, err.Error())
		default:
			h.Logger.WithError(err).Error("get order failed")
			response.Error(c, http.StatusInternalServerError, "failed to load order")
		}
		return
	}
	response.Success(c, http.StatusOK, o, "")
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	u := middleware.CurrentUser(c)
	f := repository.OrderFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	orders, total, err := h.Orders.MyOrders(c.Request.Context(), u.ID, f)
	if err != nil {
		h.Logger.WithError(err).Error("list my orders failed")
		response.Error(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	response.Paginated(c, orders, response.NewPagination(f.Page, f.Limit, total))
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	f := repository.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Sort:          c.Query("sort"),
		Order:         c.Query("order"),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 20),
	}
	orders, total, err := h.Orders.ListAll(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("list orders failed")
		response.Error(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	response.Paginated(c, orders, response.NewPagination(f.Page, f.Limit, total))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	o, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.TrackingNumber)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidOrderStatus):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			h.Logger.WithError(err).Error("update order status failed")
			response.Error(c, http.StatusInternalServerError, "failed to update order")
		}
		return
	}
	response.Success(c, http.StatusOK, o, "order status updated")
}
