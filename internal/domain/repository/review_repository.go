package repository

import (
	"context"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID string
	UserID    string
	Rating    *int
	Approved  *bool
	Page      int
	Limit     int
}

// ReviewRepository persists reviews. The product rating aggregate is NOT
// touched here; callers invoke ProductRepository.RefreshRating after a write.
type ReviewRepository interface {
	List(ctx context.Context, f ReviewFilter) ([]entity.Review, int64, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Create(ctx context.Context, r *entity.Review) error
	Update(ctx context.Context, r *entity.Review) error
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) error
}
