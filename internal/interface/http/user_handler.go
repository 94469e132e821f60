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

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type updateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"omitempty"`
}

type addressRequest struct {
	Type      string `json:"type" binding:"required,oneof=shipping billing"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

type preferencesRequest struct {
	NewsletterSubscription bool     `json:"newsletterSubscription"`
	FavoriteCategories     []string `json:"favoriteCategories"`
}

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	updated, err := h.Users.UpdateProfile(c.Request.Context(), u.ID, application.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.Logger.WithError(err).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, updated, "profile updated")
}

// List is the admin user listing with role filter and name/email search.
func (h *UserHandler) List(c *gin.Context) {
	f := repository.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	users, total, err := h.Users.ListUsers(c.Request.Context(), f)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	response.Paginated(c, users, response.NewPagination(f.Page, f.Limit, total))
}

// Addresses

func (h *UserHandler) ListAddresses(c *gin.Context) {
	u := middleware.CurrentUser(c)
	addrs, err := h.Users.Addresses(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("list addresses failed")
		response.Error(c, http.StatusInternalServerError, "failed to list addresses")
		return
	}
	response.Success(c, http.StatusOK, addrs, "")
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	a := &entity.Address{
		UserID:    u.ID,
		Type:      req.Type,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
	if err := h.Users.AddAddress(c.Request.Context(), a); err != nil {
		h.Logger.WithError(err).Error("add address failed")
		response.Error(c, http.StatusInternalServerError, "failed to add address")
		return
	}
	response.Success(c, http.StatusCreated, a, "address added")
}

func (h *UserHandler) UpdateAddress(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	a := &entity.Address{
		ID:        c.Param("id"),
		UserID:    u.ID,
		Type:      req.Type,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
	if err := h.Users.UpdateAddress(c.Request.Context(), a); err != nil {
		if errors.Is(err, application.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("update address failed")
		response.Error(c, http.StatusInternalServerError, "failed to update address")
		return
	}
	response.Success(c, http.StatusOK, a, "address updated")
}

func (h *UserHandler) DeleteAddress(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.DeleteAddress(c.Request.Context(), u.ID, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("delete address failed")
		response.Error(c, http.StatusInternalServerError, "failed to delete address")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "address deleted")
}

func (h *UserHandler) SetDefaultAddress(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.SetDefaultAddress(c.Request.Context(), u.ID, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("set default address failed")
		response.Error(c, http.StatusInternalServerError, "failed to set default address")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "default address updated")
}

// Preferences

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	err := h.Users.UpdatePreferences(c.Request.Context(), u.ID, req.NewsletterSubscription, req.FavoriteCategories)
	if err != nil {
		h.Logger.WithError(err).Error("update preferences failed")
		response.Error(c, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "preferences updated")
}

// Wishlist

func (h *UserHandler) Wishlist(c *gin.Context) {
	u := middleware.CurrentUser(c)
	items, err := h.Users.Wishlist(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("list wishlist failed")
		response.Error(c, http.StatusInternalServerError, "failed to load wishlist")
		return
	}
	response.Success(c, http.StatusOK, items, "")
}

func (h *UserHandler) AddToWishlist(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	if err := h.Users.AddToWishlist(c.Request.Context(), u.ID, req.ProductID); err != nil {
		switch {
		case errors.Is(err, application.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrAlreadyInWishlist):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.Logger.WithError(err).Error("add to wishlist failed")
			response.Error(c, http.StatusInternalServerError, "failed to add to wishlist")
		}
		return
	}
	response.Success[any](c, http.StatusCreated, nil, "added to wishlist")
}

func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.RemoveFromWishlist(c.Request.Context(), u.ID, c.Param("productId")); err != nil {
		if errors.Is(err, application.ErrWishlistItemMissing) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("remove from wishlist failed")
		response.Error(c, http.StatusInternalServerError, "failed to remove from wishlist")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "removed from wishlist")
}
