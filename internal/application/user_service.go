package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
)

var (
	ErrAddressNotFound     = errors.New("address not found")
	ErrAlreadyInWishlist   = errors.New("product already in wishlist")
	ErrWishlistItemMissing = errors.New("product not in wishlist")
)

// UserService covers profile, addresses, preferences and wishlist.
type UserService struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Logger   *logrus.Logger
}

func NewUserService(users repository.UserRepository, products repository.ProductRepository, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Products: products, Logger: logger}
}

// Profile returns the user with addresses and favorite categories attached.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Addresses, err = s.Users.ListAddresses(ctx, userID); err != nil {
		return nil, err
	}
	if u.FavoriteCategoryIDs, err = s.Users.FavoriteCategoryIDs(ctx, userID); err != nil {
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Phone = in.Phone
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, f repository.UserFilter) ([]entity.User, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	return s.Users.List(ctx, f)
}

// Addresses

func (s *UserService) Addresses(ctx context.Context, userID string) ([]entity.Address, error) {
	return s.Users.ListAddresses(ctx, userID)
}

func (s *UserService) AddAddress(ctx context.Context, a *entity.Address) error {
	return s.Users.AddAddress(ctx, a)
}

func (s *UserService) UpdateAddress(ctx context.Context, a *entity.Address) error {
	if err := s.Users.UpdateAddress(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if err := s.Users.DeleteAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	if err := s.Users.SetDefaultAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}

// Preferences

func (s *UserService) UpdatePreferences(ctx context.Context, userID string, newsletter bool, favoriteCategoryIDs []string) error {
	return s.Users.UpdatePreferences(ctx, userID, newsletter, favoriteCategoryIDs)
}

// Wishlist

func (s *UserService) Wishlist(ctx context.Context, userID string) ([]entity.Product, error) {
	return s.Users.Wishlist(ctx, userID)
}

func (s *UserService) AddToWishlist(ctx context.Context, userID, productID string) error {
	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.Users.AddToWishlist(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyInWishlist
		}
		return err
	}
	return nil
}

func (s *UserService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	if err := s.Users.RemoveFromWishlist(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWishlistItemMissing
		}
		return err
	}
	return nil
}
