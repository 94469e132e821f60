package entity

import "time"

// Category groups products. ProductCount is denormalized and maintained
// atomically inside the product create/delete transaction.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image,omitempty"`
	IsActive     bool      `json:"isActive"`
	SortOrder    int       `json:"sortOrder"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Product is the catalog aggregate root. AverageRating and ReviewCount are
// derived from approved reviews and recomputed on every review write.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	SKU           string    `json:"sku"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Stock         int       `json:"stock"`
	CategoryID    string    `json:"categoryId"`
	Category      *Category `json:"category,omitempty"`
	MainImage     string    `json:"mainImage,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Variants      []Variant `json:"variants,omitempty"`
	IsFeatured    bool      `json:"isFeatured"`
	IsActive      bool      `json:"isActive"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	ViewCount     int       `json:"viewCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// Variant is a purchasable variation of a product with its own sku/stock/price.
type Variant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"-"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}
