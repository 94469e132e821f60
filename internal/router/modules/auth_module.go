package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mercatohq/mercato/internal/container"
	"github.com/mercatohq/mercato/internal/domain/repository"
	handlers "github.com/mercatohq/mercato/internal/interface/http"
	"github.com/mercatohq/mercato/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Profile *handlers.UserHandler
	Users   repository.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, profile *handlers.UserHandler, users repository.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Profile: profile, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Credential endpoints get tight per-IP limits.
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/forgot-password", resetLimiter, m.Handler.ForgotPassword)
	auth.POST("/reset-password", resetLimiter, m.Handler.ResetPassword)
	auth.GET("/verify-email/:token", m.Handler.VerifyEmail)
	auth.POST("/resend-verification", resetLimiter, m.Handler.ResendVerification)

	authed := auth.Group("/")
	authed.Use(middleware.Authenticate(container.GetJWT(), m.Users))
	{
		authed.GET("/me", m.Handler.Me)
		authed.PUT("/profile", m.Profile.UpdateProfile)
		authed.PUT("/change-password", m.Handler.ChangePassword)
	}
}
