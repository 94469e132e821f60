package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/helpers"
)

// stubUserRepo serves a single fixed user; everything else is unreachable
// from the middleware under test.
type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubUserRepo) SetEmailVerified(context.Context, string) error { return nil }
func (s *stubUserRepo) TouchLastLogin(context.Context, string) error { return nil }
func (s *stubUserRepo) List(context.Context, repository.UserFilter) ([]entity.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) ListAddresses(context.Context, string) ([]entity.Address, error) {
	return nil, nil
}
func (s *stubUserRepo) AddAddress(context.Context, *entity.Address) error { return nil }
func (s *stubUserRepo) UpdateAddress(context.Context, *entity.Address) error { return nil }
func (s *stubUserRepo) DeleteAddress(context.Context, string, string) error { return nil }
func (s *stubUserRepo) SetDefaultAddress(context.Context, string, string) error { return nil }
func (s *stubUserRepo) UpdatePreferences(context.Context, string, bool, []string) error {
	return nil
}
func (s *stubUserRepo) FavoriteCategoryIDs(context.Context, string) ([]string, error) {
	return nil, nil
}
func (s *stubUserRepo) Wishlist(context.Context, string) ([]entity.Product, error) {
	return nil, nil
}
func (s *stubUserRepo) AddToWishlist(context.Context, string, string) error { return nil }
func (s *stubUserRepo) RemoveFromWishlist(context.Context, string, string) error { return nil }

func authTestRouter(jwt *helpers.JWTManager, users repository.UserRepository, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(jwt, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		u := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userId": u.ID})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authTestRouter(jwt, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authTestRouter(jwt, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_BadToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authTestRouter(jwt, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestAuthenticate_UserGone(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token, _, err := jwt.Generate("deleted-user")
	require.NoError(t, err)

	r := authTestRouter(jwt, &stubUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_Success(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	users := &stubUserRepo{user: &entity.User{ID: "u1", Role: entity.RoleCustomer}}
	r := authTestRouter(jwt, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)
}

func TestRequireRoles_CustomerBlocked(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	users := &stubUserRepo{user: &entity.User{ID: "u1", Role: entity.RoleCustomer}}
	r := authTestRouter(jwt, users, RequireRoles(entity.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoles_AdminAllowed(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	users := &stubUserRepo{user: &entity.User{ID: "u1", Role: entity.RoleAdmin}}
	r := authTestRouter(jwt, users, RequireRoles(entity.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
