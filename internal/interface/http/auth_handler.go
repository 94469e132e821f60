package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/application"
	"github.com/mercatohq/mercato/internal/interface/middleware"
	"github.com/mercatohq/mercato/pkg/response"
	"github.com/mercatohq/mercato/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, users *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

func authPayload(res *application.AuthResult) gin.H {
	return gin.H{
		"user":      res.User,
		"token":     res.Token,
		"expiresAt": res.TokenExpiry,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}
	response.Success(c, http.StatusCreated, authPayload(res), "registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}
	response.Success(c, http.StatusOK, authPayload(res), "login successful")
}

// Logout is a no-op server side; the bearer token simply expires. It exists
// so clients have a consistent endpoint to call.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	profile, err := h.Users.Profile(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("load profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, profile, "")
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if err := h.Auth.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("verify email failed")
		response.Error(c, http.StatusInternalServerError, "verification failed")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email verified successfully")
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("resend verification failed")
		response.Error(c, http.StatusInternalServerError, "failed to resend verification")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "verification email sent")
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).Error("forgot password failed")
		response.Error(c, http.StatusInternalServerError, "failed to process request")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password reset email sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("reset password failed")
		response.Error(c, http.StatusInternalServerError, "failed to reset password")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password reset successfully")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrWrongPassword) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("change password failed")
		response.Error(c, http.StatusInternalServerError, "failed to change password")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed successfully")
}
