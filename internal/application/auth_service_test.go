package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/helpers"
)

func newAuthService(users *MockUserRepository) *AuthService {
	jwt := helpers.NewJWTManager("test-secret", 30*24*time.Hour)
	return NewAuthService(users, jwt, nil, nil, testLogger(), "https://shop.example.com")
}

func TestAuthService_Login_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	hash, err := helpers.HashPassword("s3cret!pass")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&entity.User{ID: "u1", Email: "jane@example.com", Password: hash}, nil)
	users.On("TouchLastLogin", mock.Anything, "u1").Return(nil)

	res, err := svc.Login(context.Background(), "jane@example.com", "s3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.TokenExpiry.After(time.Now()))

	claims, err := svc.JWT.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	hash, err := helpers.HashPassword("correct")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&entity.User{ID: "u1", Password: hash}, nil)

	_, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_TouchLastLoginFailureIsNotFatal(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	hash, err := helpers.HashPassword("pass")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&entity.User{ID: "u1", Password: hash}, nil)
	users.On("TouchLastLogin", mock.Anything, "u1").Return(assert.AnError)

	_, err = svc.Login(context.Background(), "jane@example.com", "pass")
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	hash, err := helpers.HashPassword("oldpass")
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Password: hash}, nil)

	err = svc.ChangePassword(context.Background(), "u1", "notmyoldpass", "newpass")
	assert.ErrorIs(t, err, ErrWrongPassword)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	hash, err := helpers.HashPassword("oldpass")
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Password: hash}, nil)
	users.On("UpdatePassword", mock.Anything, "u1", mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, svc.ChangePassword(context.Background(), "u1", "oldpass", "newpass"))
	users.AssertExpectations(t)
}
