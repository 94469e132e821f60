package entity

import "time"

// Roles a user can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Address types.
const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Password            string     `json:"-"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Phone               string     `json:"phone,omitempty"`
	Role                string     `json:"role"`
	IsEmailVerified     bool       `json:"isEmailVerified"`
	Newsletter          bool       `json:"newsletterSubscription"`
	LastLoginAt         *time.Time `json:"lastLogin,omitempty"`
	Addresses           []Address  `json:"addresses,omitempty"`
	FavoriteCategoryIDs []string   `json:"favoriteCategories,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Address belongs to a user; at most one default per (user, type).
type Address struct {
	ID        string `json:"id"`
	UserID    string `json:"-"`
	Type      string `json:"type"` // shipping or billing
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}
