package repository

import (
	"context"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role   string
	Search string // matches first name, last name or email
	Page   int
	Limit  int
}

// UserRepository covers accounts, addresses, preferences and wishlists.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetEmailVerified(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]entity.User, int64, error)

	ListAddresses(ctx context.Context, userID string) ([]entity.Address, error)
	AddAddress(ctx context.Context, a *entity.Address) error
	UpdateAddress(ctx context.Context, a *entity.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	SetDefaultAddress(ctx context.Context, userID, addressID string) error

	UpdatePreferences(ctx context.Context, userID string, newsletter bool, favoriteCategoryIDs []string) error
	FavoriteCategoryIDs(ctx context.Context, userID string) ([]string, error)

	Wishlist(ctx context.Context, userID string) ([]entity.Product, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}
