package repository

import (
	"context"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// CategoryRepository persists product categories.
type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]entity.Category, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
}
