package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

func TestUserService_Profile_AttachesAddressesAndFavorites(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), testLogger())

	users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Email: "jane@example.com"}, nil)
	users.On("ListAddresses", mock.Anything, "u1").Return([]entity.Address{{ID: "a1", Type: "shipping"}}, nil)
	users.On("FavoriteCategoryIDs", mock.Anything, "u1").Return([]string{"c1", "c2"}, nil)

	u, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, u.Addresses, 1)
	assert.Equal(t, []string{"c1", "c2"}, u.FavoriteCategoryIDs)
}

func TestUserService_AddToWishlist_UnknownProduct(t *testing.T) {
	users := new(MockUserRepository)
	products := new(MockProductRepository)
	svc := NewUserService(users, products, testLogger())

	products.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	err := svc.AddToWishlist(context.Background(), "u1", "gone")
	assert.ErrorIs(t, err, ErrProductNotFound)
	users.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_AddToWishlist_Duplicate(t *testing.T) {
	users := new(MockUserRepository)
	products := new(MockProductRepository)
	svc := NewUserService(users, products, testLogger())

	products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1"}, nil)
	users.On("AddToWishlist", mock.Anything, "u1", "p1").Return(repository.ErrDuplicate)

	err := svc.AddToWishlist(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)
}

func TestUserService_RemoveFromWishlist_Missing(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), testLogger())

	users.On("RemoveFromWishlist", mock.Anything, "u1", "p1").Return(repository.ErrNotFound)

	err := svc.RemoveFromWishlist(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, ErrWishlistItemMissing)
}

func TestUserService_UpdateAddress_NotFound(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), testLogger())

	users.On("UpdateAddress", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	err := svc.UpdateAddress(context.Background(), &entity.Address{ID: "a1", UserID: "u1"})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestUserService_ListUsers_Defaults(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockProductRepository), testLogger())

	users.On("List", mock.Anything, mock.MatchedBy(func(f repository.UserFilter) bool {
		return f.Page == 1 && f.Limit == 10
	})).Return([]entity.User{}, int64(0), nil)

	_, _, err := svc.ListUsers(context.Background(), repository.UserFilter{})
	require.NoError(t, err)
	users.AssertExpectations(t)
}
