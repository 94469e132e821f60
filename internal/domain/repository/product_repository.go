package repository

import (
	"context"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// ProductFilter narrows the product listing. Nil pointer fields are
// unset filters.
type ProductFilter struct {
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	Search     string
	IsActive   *bool
	Sort       string // whitelisted column
	Order      string // asc or desc
	Page       int
	Limit      int
}

// ProductRepository persists products and their variants. Create and Delete
// also maintain the owning category's product_count inside the same
// transaction.
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]entity.Product, int64, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	Featured(ctx context.Context, limit int) ([]entity.Product, error)
	Popular(ctx context.Context, limit int) ([]entity.Product, error)
	Related(ctx context.Context, productID, categoryID string, limit int) ([]entity.Product, error)
	Search(ctx context.Context, q string, limit int) ([]entity.Product, error)

	// RefreshRating re-derives average_rating/review_count from the current
	// set of approved reviews. Called explicitly by the review service after
	// every review write.
	RefreshRating(ctx context.Context, productID string) error
}
