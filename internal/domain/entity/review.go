package entity

import "time"

// Review is a user's rating of a product. One review per (user, product).
// New and edited reviews start unapproved and only count toward the product
// aggregate once an admin approves them.
type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"isApproved"`
	UserName   string    `json:"userName,omitempty"`    // joined for response shaping
	ProductRef *Product  `json:"product,omitempty"`     // joined for my-reviews
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
